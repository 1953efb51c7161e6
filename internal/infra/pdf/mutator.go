package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/wudi/pdfkit/ir"
	"github.com/wudi/pdfkit/ir/semantic"
	"github.com/wudi/pdfkit/writer"
	"golang.org/x/text/encoding/charmap"

	"paperless-annotator/internal/domain"
)

const (
	annotFont   = "FAnnot"
	lineSpacing = 1.2
)

// KitMutator edits documents through the pdfkit semantic model.
type KitMutator struct {
	logger domain.Logger
}

// NewKitMutator creates a mutator.
func NewKitMutator(logger domain.Logger) *KitMutator {
	return &KitMutator{logger: logger}
}

// Load parses document bytes into an editable model.
func (m *KitMutator) Load(ctx context.Context, data []byte) (domain.MutableDocument, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	doc, err := ir.NewDefault().Parse(ctx, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	m.logger.Debug("Document parsed for editing", "pages", len(doc.Pages))
	return newKitDocument(doc), nil
}

type kitDocument struct {
	doc   *semantic.Document
	pages map[int]*kitPage
}

func newKitDocument(doc *semantic.Document) *kitDocument {
	return &kitDocument{doc: doc, pages: make(map[int]*kitPage)}
}

func (d *kitDocument) PageCount() int { return len(d.doc.Pages) }

func (d *kitDocument) Page(index int) (domain.MutablePage, error) {
	if index < 0 || index >= len(d.doc.Pages) || d.doc.Pages[index] == nil {
		return nil, fmt.Errorf("page %d of %d: %w", index+1, len(d.doc.Pages), domain.ErrPageIndex)
	}
	if p, ok := d.pages[index]; ok {
		return p, nil
	}
	p := &kitPage{page: d.doc.Pages[index]}
	d.pages[index] = p
	return p, nil
}

func (d *kitDocument) Save(ctx context.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := writer.NewWriter().Write(ctx, d.doc, &buf, writer.Config{}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type kitPage struct {
	page     *semantic.Page
	isolated bool
	images   int
}

func (p *kitPage) Size() (float64, float64) {
	mb := p.page.MediaBox
	return mb.URX - mb.LLX, mb.URY - mb.LLY
}

// DrawText writes text with its first baseline at (x, y) in Helvetica. Each
// further line is set one line below the previous one.
func (p *kitPage) DrawText(text string, x, y, size float64) error {
	res := p.resources()
	if _, ok := res.Fonts[annotFont]; !ok {
		res.Fonts[annotFont] = &semantic.Font{
			Subtype:  "Type1",
			BaseFont: "Helvetica",
			Encoding: "WinAnsiEncoding",
		}
	}
	ox, oy := p.origin()

	ops := []semantic.Operation{
		{Operator: "q"},
		{Operator: "BT"},
		{Operator: "rg", Operands: numbers(0, 0, 0)},
		{Operator: "Tf", Operands: []semantic.Operand{
			semantic.NameOperand{Value: annotFont},
			semantic.NumberOperand{Value: size},
		}},
		{Operator: "Td", Operands: numbers(ox+x, oy+y)},
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		if i > 0 {
			ops = append(ops, semantic.Operation{Operator: "Td", Operands: numbers(0, -size*lineSpacing)})
		}
		ops = append(ops, semantic.Operation{
			Operator: "Tj",
			Operands: []semantic.Operand{semantic.StringOperand{Value: winAnsi(line)}},
		})
	}
	ops = append(ops, semantic.Operation{Operator: "ET"}, semantic.Operation{Operator: "Q"})

	p.appendOps(ops)
	return nil
}

// DrawImage embeds img as an image XObject with an alpha soft mask and
// paints it into the given rectangle at the given opacity.
func (p *kitPage) DrawImage(img image.Image, x, y, width, height, opacity float64) error {
	b := img.Bounds()
	if b.Empty() {
		return fmt.Errorf("empty image")
	}
	rgb, alpha := splitAlpha(img)

	p.images++
	imName := fmt.Sprintf("ImAnnot%d", p.images)
	gsName := fmt.Sprintf("GSAnnot%d", p.images)

	res := p.resources()
	res.XObjects[imName] = semantic.XObject{
		Subtype:          "Image",
		Width:            b.Dx(),
		Height:           b.Dy(),
		ColorSpace:       semantic.DeviceColorSpace{Name: "DeviceRGB"},
		BitsPerComponent: 8,
		Data:             rgb,
		SMask: &semantic.XObject{
			Subtype:          "Image",
			Width:            b.Dx(),
			Height:           b.Dy(),
			ColorSpace:       semantic.DeviceColorSpace{Name: "DeviceGray"},
			BitsPerComponent: 8,
			Data:             alpha,
		},
	}
	res.ExtGStates[gsName] = semantic.ExtGState{FillAlpha: &opacity}

	ox, oy := p.origin()
	p.appendOps([]semantic.Operation{
		{Operator: "q"},
		{Operator: "gs", Operands: []semantic.Operand{semantic.NameOperand{Value: gsName}}},
		{Operator: "cm", Operands: numbers(width, 0, 0, height, ox+x, oy+y)},
		{Operator: "Do", Operands: []semantic.Operand{semantic.NameOperand{Value: imName}}},
		{Operator: "Q"},
	})
	return nil
}

func (p *kitPage) origin() (float64, float64) {
	return p.page.MediaBox.LLX, p.page.MediaBox.LLY
}

func (p *kitPage) resources() *semantic.Resources {
	if p.page.Resources == nil {
		p.page.Resources = &semantic.Resources{}
	}
	res := p.page.Resources
	if res.Fonts == nil {
		res.Fonts = make(map[string]*semantic.Font)
	}
	if res.XObjects == nil {
		res.XObjects = make(map[string]semantic.XObject)
	}
	if res.ExtGStates == nil {
		res.ExtGStates = make(map[string]semantic.ExtGState)
	}
	res.Dirty = true
	return res
}

// appendOps adds a content stream after the page's own content. The original
// content is bracketed by q/Q once so a left-over CTM cannot shift overlays.
func (p *kitPage) appendOps(ops []semantic.Operation) {
	if !p.isolated {
		contents := make([]semantic.ContentStream, 0, len(p.page.Contents)+3)
		contents = append(contents, semantic.ContentStream{Operations: []semantic.Operation{{Operator: "q"}}})
		contents = append(contents, p.page.Contents...)
		contents = append(contents, semantic.ContentStream{Operations: []semantic.Operation{{Operator: "Q"}}})
		p.page.Contents = contents
		p.isolated = true
	}
	p.page.Contents = append(p.page.Contents, semantic.ContentStream{Operations: ops})
	p.page.Dirty = true
}

func numbers(vs ...float64) []semantic.Operand {
	out := make([]semantic.Operand, len(vs))
	for i, v := range vs {
		out[i] = semantic.NumberOperand{Value: v}
	}
	return out
}

// winAnsi encodes s for a WinAnsiEncoding font. Runes outside the code page
// become '?'.
func winAnsi(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			b = '?'
		}
		out = append(out, b)
	}
	return out
}

// splitAlpha returns the un-premultiplied RGB samples and the alpha channel
// of img, rows top to bottom.
func splitAlpha(img image.Image) (rgb, alpha []byte) {
	b := img.Bounds()
	rgb = make([]byte, 0, b.Dx()*b.Dy()*3)
	alpha = make([]byte, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			rgb = append(rgb, c.R, c.G, c.B)
			alpha = append(alpha, c.A)
		}
	}
	return rgb, alpha
}
