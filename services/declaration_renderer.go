package services

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SamuelLeutner/student-declarations/models"
	"github.com/SamuelLeutner/student-declarations/utils"
	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

// Page geometry in points, origin at the top-left corner.
const (
	pageWidth  = 595.28
	pageHeight = 841.89
	pageMargin = 70.0

	bodyFontSize   = 12.0
	bodyLineHeight = 20.0
	titleFontSize  = 14.0

	watermarkWidthRatio = 0.7
	watermarkAlpha      = 0.12
	signatureWidth      = 260.0
	signatureBottom     = 100.0

	footerBaseline = 30.0
	footerGray     = 102
)

const (
	declarationTitle    = "DECLARAÇÃO DE MATRÍCULA"
	declarationSubtitle = "Cursos Presenciais e/ou Virtuais"
	declarationPlace    = "Goiânia"
	signatureCaption    = "Assinatura da instituição"
	footerCNPJ          = "CNPJ: 40.070030000199"
	footerAddress       = "R. 8, 857 - St. Central, Goiânia - GO, 74013-030"

	clauseEnrolled  = "está devidamente matriculado(a)"
	clauseSuspended = "encontra-se com a matrícula TRANCADA"

	bodyTemplate   = `Declaramos para os devidos fins que %s sob CPF %s %s em um curso de Pós-Graduação Lato Sensu, que se refere às duas pós-graduações "Pós graduação de Medicina de Emergência" e "Pós graduação de Medicina Intensiva", desde %s. Carga horária de 720 horas, oferecido pela Instituição LIBERDADE MEDICA LTDA.`
	complianceText = `Declaramos ainda, que o Curso obedece ao disposto na Resolução CNE/CES nº 01/2007 e que está devidamente credenciado no Ministério da Educação – MEC.`

	watermarkFile = "watermark.png"
	signatureFile = "signature.png"
)

// TextLine is one positioned run of text. Y is the baseline measured from
// the top of the page.
type TextLine struct {
	Text  string
	X     float64
	Y     float64
	Style string
	Size  float64
	Gray  int
}

type ImageBox struct {
	Name  string
	Data  []byte
	X     float64
	Y     float64
	W     float64
	H     float64
	Alpha float64
}

// DeclarationLayout is the fully positioned page before drawing.
type DeclarationLayout struct {
	Watermark        *ImageBox
	Title            TextLine
	Subtitle         TextLine
	Body             []TextLine
	PlaceDate        TextLine
	Signature        *ImageBox
	SignatureCaption TextLine
	Footer           []TextLine
}

// Lines returns every text line in drawing order.
func (l DeclarationLayout) Lines() []TextLine {
	lines := []TextLine{l.Title, l.Subtitle}
	lines = append(lines, l.Body...)
	lines = append(lines, l.PlaceDate, l.SignatureCaption)
	return append(lines, l.Footer...)
}

// MeasureFunc returns the rendered width of s at the given style and size.
type MeasureFunc func(style string, size float64, s string) float64

type DeclarationRenderer struct {
	assetsDir string
	compress  bool
	now       func() time.Time
	logger    *zap.Logger
}

func NewDeclarationRenderer(assetsDir string, logger *zap.Logger) *DeclarationRenderer {
	return &DeclarationRenderer{
		assetsDir: assetsDir,
		compress:  true,
		now:       utils.BrasiliaNow,
		logger:    logger,
	}
}

// WithClock replaces the issuance-date clock.
func (r *DeclarationRenderer) WithClock(now func() time.Time) *DeclarationRenderer {
	r.now = now
	return r
}

// WithCompression toggles content stream compression; uncompressed output
// keeps the text searchable in the raw bytes.
func (r *DeclarationRenderer) WithCompression(compress bool) *DeclarationRenderer {
	r.compress = compress
	return r
}

// StatusClause picks the enrollment wording for the body paragraph.
func StatusClause(status string) string {
	if strings.EqualFold(strings.TrimSpace(status), StatusTrancado) {
		return clauseSuspended
	}
	return clauseEnrolled
}

// DeclarationParagraphs returns the two body paragraphs. The matriculation
// date is printed exactly as stored.
func DeclarationParagraphs(req models.DeclarationRequest) []string {
	return []string{
		fmt.Sprintf(bodyTemplate, req.Name, utils.FormatCPF(req.CPF), StatusClause(req.Status), req.MatriculationDate),
		complianceText,
	}
}

// WrapText breaks text greedily: words are added to the current line while
// it fits in maxWidth, otherwise the line is committed and the word starts
// the next one. A single word wider than maxWidth gets a line of its own.
func WrapText(text string, maxWidth float64, measure func(string) float64) []string {
	words := strings.Split(text, " ")
	var lines []string
	current := ""

	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if measure(candidate) <= maxWidth {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		current = word
	}

	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

func newPage(compress bool) (*fpdf.Fpdf, func(string) string) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: pageWidth, Ht: pageHeight},
	})
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(compress)
	return pdf, pdf.UnicodeTranslatorFromDescriptor("")
}

func fpdfMeasure(pdf *fpdf.Fpdf, tr func(string) string) MeasureFunc {
	return func(style string, size float64, s string) float64 {
		pdf.SetFont("Times", style, size)
		return pdf.GetStringWidth(tr(s))
	}
}

// Layout positions every element of the declaration for req.
func (r *DeclarationRenderer) Layout(req models.DeclarationRequest) DeclarationLayout {
	pdf, tr := newPage(r.compress)
	return r.layout(req, fpdfMeasure(pdf, tr), r.now())
}

func (r *DeclarationRenderer) layout(req models.DeclarationRequest, measure MeasureFunc, issuedAt time.Time) DeclarationLayout {
	var l DeclarationLayout

	centered := func(text, style string, size, y float64, gray int) TextLine {
		return TextLine{Text: text, X: (pageWidth - measure(style, size, text)) / 2, Y: y, Style: style, Size: size, Gray: gray}
	}

	if wm := r.loadImage(watermarkFile); wm != nil {
		wm.W = pageWidth * watermarkWidthRatio
		wm.H = wm.H * wm.W
		wm.X = (pageWidth - wm.W) / 2
		wm.Y = (pageHeight - wm.H) / 2
		wm.Alpha = watermarkAlpha
		l.Watermark = wm
	}

	y := pageMargin + 40
	l.Title = centered(declarationTitle, "B", titleFontSize, y, 0)

	y += bodyLineHeight * 2
	l.Subtitle = centered(declarationSubtitle, "I", bodyFontSize, y, 0)

	y += bodyLineHeight * 4
	maxWidth := pageWidth - pageMargin*2
	measureBody := func(s string) float64 { return measure("", bodyFontSize, s) }

	for i, paragraph := range DeclarationParagraphs(req) {
		if i > 0 {
			y += bodyLineHeight
		}
		for _, line := range WrapText(paragraph, maxWidth, measureBody) {
			l.Body = append(l.Body, TextLine{Text: line, X: pageMargin, Y: y, Size: bodyFontSize})
			y += bodyLineHeight
		}
	}

	y += bodyLineHeight * 4
	placeDate := fmt.Sprintf("%s, %s", declarationPlace, utils.FormatLongDatePT(issuedAt))
	l.PlaceDate = TextLine{
		Text: placeDate,
		X:    pageWidth - pageMargin - measureBody(placeDate),
		Y:    y,
		Size: bodyFontSize,
	}

	captionBaseline := pageHeight - signatureBottom
	if sig := r.loadImage(signatureFile); sig != nil {
		sig.W = signatureWidth
		sig.H = sig.H * sig.W
		sig.X = (pageWidth - sig.W) / 2
		sig.Y = pageHeight - signatureBottom - sig.H
		sig.Alpha = 1
		l.Signature = sig
		captionBaseline += 15
	}
	l.SignatureCaption = centered(signatureCaption, "", 9, captionBaseline, 0)

	l.Footer = []TextLine{
		centered(footerCNPJ, "", 8, pageHeight-footerBaseline-10, footerGray),
		centered(footerAddress, "", 8, pageHeight-footerBaseline, footerGray),
	}
	return l
}

// loadImage reads a PNG asset. The returned box carries the height/width
// ratio in H until the caller scales it. Missing or undecodable assets are
// skipped.
func (r *DeclarationRenderer) loadImage(name string) *ImageBox {
	if r.assetsDir == "" {
		return nil
	}
	path := filepath.Join(r.assetsDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Warn("Error loading declaration asset", zap.String("path", path), zap.Error(err))
		}
		return nil
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || format != "png" || cfg.Width == 0 {
		r.logger.Warn("Declaration asset is not a readable PNG", zap.String("path", path), zap.Error(err))
		return nil
	}
	return &ImageBox{Name: name, Data: data, H: float64(cfg.Height) / float64(cfg.Width)}
}

// Render draws the declaration and returns the PDF bytes.
func (r *DeclarationRenderer) Render(req models.DeclarationRequest) ([]byte, error) {
	pdf, tr := newPage(r.compress)
	issuedAt := r.now()
	layout := r.layout(req, fpdfMeasure(pdf, tr), issuedAt)

	pdf.SetTitle(declarationTitle, true)
	pdf.SetCreator("student-declarations", false)
	pdf.SetCreationDate(issuedAt)
	pdf.SetModificationDate(issuedAt)
	pdf.SetCatalogSort(true)
	pdf.AddPage()

	if layout.Watermark != nil {
		r.drawImage(pdf, layout.Watermark)
	}

	for _, line := range layout.Lines() {
		pdf.SetFont("Times", line.Style, line.Size)
		pdf.SetTextColor(line.Gray, line.Gray, line.Gray)
		pdf.Text(line.X, line.Y, tr(line.Text))
	}

	if layout.Signature != nil {
		r.drawImage(pdf, layout.Signature)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write declaration PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *DeclarationRenderer) drawImage(pdf *fpdf.Fpdf, img *ImageBox) {
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(img.Name, opts, bytes.NewReader(img.Data))
	if pdf.Err() {
		r.logger.Warn("Skipping declaration asset fpdf could not embed", zap.String("asset", img.Name), zap.Error(pdf.Error()))
		pdf.ClearError()
		return
	}

	if img.Alpha < 1 {
		pdf.SetAlpha(img.Alpha, "Normal")
		defer pdf.SetAlpha(1, "Normal")
	}
	pdf.ImageOptions(img.Name, img.X, img.Y, img.W, img.H, false, opts, 0, "")
}
