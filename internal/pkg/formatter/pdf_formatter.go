package formatter

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/futig/title-assistant/internal/entity"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	// pdfFontName is the internal name used by gofpdf
	// for the UTF-8 capable font.
	pdfFontName = "NotoSansSC"
)

// pdfFontPaths are tried in order. Runtime layout first (fonts copied next
// to the binary), then the source tree, then common system locations.
var pdfFontPaths = []string{
	"ttf/NotoSansSC-Regular.ttf",
	"internal/pkg/formatter/ttf/NotoSansSC-Regular.ttf",
	"/usr/share/fonts/truetype/noto/NotoSansSC-Regular.ttf",
	"/usr/share/fonts/truetype/wqy/wqy-microhei.ttc",
}

type PDFFormatter struct {
	fontPaths []string
}

func NewPDFFormatter() *PDFFormatter {
	return &PDFFormatter{fontPaths: pdfFontPaths}
}

// NewPDFFormatterWithFonts uses the given font candidates instead of the
// default locations.
func NewPDFFormatterWithFonts(fontPaths []string) *PDFFormatter {
	return &PDFFormatter{fontPaths: fontPaths}
}

// FontPath returns the CJK font that will be embedded, or "" when none of
// the candidates exist and output falls back to a core font.
func (pf *PDFFormatter) FontPath() string {
	return resolveFontPath(pf.fontPaths)
}

func resolveFontPath(candidates []string) string {
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (pf *PDFFormatter) Format(state entity.TitleState) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Core fonts cannot draw CJK glyphs; without a bundled font the
	// document still renders its layout.
	fontName := "Arial"
	if fontPath := pf.FontPath(); fontPath != "" {
		pdf.AddUTF8Font(pdfFontName, "", fontPath)
		pdf.AddUTF8Font(pdfFontName, "B", fontPath)
		fontName = pdfFontName
	}

	pdf.SetFont(fontName, "B", 20)
	pdf.Cell(0, 10, baseTitle)
	pdf.Ln(14)

	pdf.SetFont(fontName, "", 11)
	_, lineHeight := pdf.GetFontSize()
	pdf.MultiCell(0, lineHeight*1.5, purposeLabel+": "+state.Purpose, "", "", false)
	if req := strings.TrimSpace(state.AdditionalRequirements); req != "" {
		pdf.MultiCell(0, lineHeight*1.5, requirementsLabel+": "+req, "", "", false)
	}
	pdf.Ln(4)

	for i, t := range state.Results {
		pdf.SetFont(fontName, "B", 14)
		pdf.MultiCell(0, 8, fmt.Sprintf("%d. %s", i+1, t.Title), "", "", false)
		pdf.SetFont(fontName, "", 11)
		pdf.MultiCell(0, lineHeight*1.5, reasoningLabel+": "+t.Reasoning, "", "", false)
		pdf.Ln(3)
	}

	for _, section := range []struct {
		label    string
		keywords []string
	}{
		{keywordsCnLabel, state.KeywordsCn},
		{keywordsEnLabel, state.KeywordsEn},
		{selectedLabel, state.SelectedKeywords},
	} {
		if len(section.keywords) == 0 {
			continue
		}
		pdf.SetFont(fontName, "B", 12)
		pdf.Cell(0, 8, section.label)
		pdf.Ln(8)
		pdf.SetFont(fontName, "", 11)
		pdf.MultiCell(0, lineHeight*1.5, joinKeywords(section.keywords, ", "), "", "", false)
		pdf.Ln(2)
	}

	pdf.Ln(4)
	pdf.SetFont(fontName, "", 9)
	pdf.Cell(0, 6, disclaimer)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (pf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (pf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
