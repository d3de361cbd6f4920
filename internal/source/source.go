// Package source imports canvas backgrounds from PDF documents and
// image files. Venue plots and stage layouts usually arrive as PDFs, so
// pages are rendered to images and attached as background layers.
package source

import (
	"image"

	"github.com/gen2brain/go-fitz"
)

// Source yields renderable pages for background import.
type Source interface {
	PageCount() int
	RenderPage(index int, dpi int) (image.Image, error)
	Close() error
}

// PDFSource renders PDF pages through go-fitz.
type PDFSource struct {
	doc  *fitz.Document
	path string
}

// NewPDFSource opens a PDF document.
func NewPDFSource(path string) (*PDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return &PDFSource{doc: doc, path: path}, nil
}

func (s *PDFSource) PageCount() int {
	return s.doc.NumPage()
}

// RenderPage rasterizes one page. fitz documents are not safe for
// concurrent rendering, so each render opens its own handle; that is
// what lets pages import in parallel.
func (s *PDFSource) RenderPage(index int, dpi int) (image.Image, error) {
	workerDoc, err := fitz.New(s.path)
	if err != nil {
		return nil, err
	}
	defer workerDoc.Close()
	return workerDoc.ImageDPI(index, float64(dpi))
}

func (s *PDFSource) Close() error {
	return s.doc.Close()
}
