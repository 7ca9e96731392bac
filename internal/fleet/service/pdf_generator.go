package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/entity"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/storage"
)

const pdfKeyPrefix = "pdfs"

// ArtifactLine one printed line of a submission PDF
type ArtifactLine struct {
	Label string
	Value string
}

// Artifact printable content of a submission
type Artifact struct {
	Title       string
	Fields      []ArtifactLine
	Attachments []ArtifactLine
	Footer      []ArtifactLine
}

// PDFGenerator renders submissions to PDF and stores them in the blob store
type PDFGenerator struct {
	store storage.BlobStore
	now   func() time.Time
}

// NewPDFGenerator creates a PDF generator writing to store
func NewPDFGenerator(store storage.BlobStore) *PDFGenerator {
	return &PDFGenerator{store: store, now: time.Now}
}

// Generate writes the PDF of sub and returns its public reference
// (/files/pdfs/<submissionID>-<unixMillis>.pdf). def may be nil when the
// definition has been deleted; values are then printed in key order.
func (g *PDFGenerator) Generate(ctx context.Context, def *entity.FormDefinition, sub *entity.FormSubmission, actor string) (string, error) {
	art := BuildArtifact(def, sub, actor)
	body, err := renderPDF(art, sub.CompletedAt)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("%s/%s-%d.pdf", pdfKeyPrefix, sub.ID, g.now().UnixMilli())
	if err := g.store.Put(ctx, key, bytes.NewReader(body), int64(len(body)), "application/pdf"); err != nil {
		return "", fmt.Errorf("store pdf: %w", err)
	}
	return storage.URL(key), nil
}

// BuildArtifact lays out the submission: title, one line per value in
// definition order then remaining keys sorted, attachments, submitter.
func BuildArtifact(def *entity.FormDefinition, sub *entity.FormSubmission, actor string) *Artifact {
	art := &Artifact{Title: "Submission " + sub.ID}
	if def != nil && def.Name != "" {
		art.Title = fmt.Sprintf("%s - Submission %s", def.Name, sub.ID)
	}

	printed := make(map[string]bool, len(sub.Fields))
	if def != nil {
		for _, f := range def.Fields {
			if f.FieldType == entity.FieldTypeSection {
				continue
			}
			v, ok := sub.Fields[f.FieldName]
			if !ok {
				continue
			}
			printed[f.FieldName] = true
			if f.FieldType.IsFile() {
				if ref := formatValue(v); ref != "" {
					art.Attachments = append(art.Attachments, ArtifactLine{Label: f.FieldName, Value: ref})
				}
				continue
			}
			art.Fields = append(art.Fields, ArtifactLine{Label: f.FieldName, Value: formatValue(v)})
		}
	}
	rest := make([]string, 0, len(sub.Fields))
	for k := range sub.Fields {
		if !printed[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		art.Fields = append(art.Fields, ArtifactLine{Label: k, Value: formatValue(sub.Fields[k])})
	}

	if sub.Signature != "" {
		art.Attachments = append(art.Attachments, ArtifactLine{Label: "Signature", Value: sub.Signature})
	}

	completedBy := sub.CompletedBy
	if completedBy == "" {
		completedBy = actor
	}
	art.Footer = []ArtifactLine{
		{Label: "Completed by", Value: completedBy},
		{Label: "Completed at", Value: sub.CompletedAt.UTC().Format(time.RFC3339)},
	}
	if actor != "" && actor != completedBy {
		art.Footer = append(art.Footer, ArtifactLine{Label: "Generated by", Value: actor})
	}
	return art
}

func renderPDF(art *Artifact, created time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(created)
	pdf.SetTitle(art.Title, true)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.MultiCell(0, 8, tr(art.Title), "", "L", false)
	pdf.Ln(4)

	writeLines := func(lines []ArtifactLine) {
		for _, l := range lines {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(60, 6, tr(l.Label), "", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 6, tr(l.Value), "", "L", false)
		}
	}

	writeLines(art.Fields)
	if len(art.Attachments) > 0 {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 7, "Attachments", "", 1, "L", false, 0, "")
		writeLines(art.Attachments)
	}
	pdf.Ln(3)
	writeLines(art.Footer)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "Yes"
		}
		return "No"
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []interface{}:
		var buf bytes.Buffer
		for i, item := range val {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(formatValue(item))
		}
		return buf.String()
	}
	return fmt.Sprint(v)
}
