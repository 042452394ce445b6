// Package report renders scan findings into a forensic PDF report following
// the German documentation format for digital evidence. Report generation
// consumes an already-computed finding list; its failure never invalidates
// the scan results.
package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-pdf/fpdf"

	"github.com/hashhound/hashhound/internal/scan"
)

// Params identifies the scan being documented.
type Params struct {
	Investigator string
	EvidencePath string
	OutputPath   string
	// CaseNumber is the Aktenzeichen; empty omits the row.
	CaseNumber string
}

const (
	timeFormat = "02.01.2006 15:04:05"
	dateFormat = "02.01.2006"
)

// Generate writes the report PDF to p.OutputPath.
func Generate(p Params, findings []scan.Finding) error {
	slog.Info("generating forensic report", "findings", len(findings), "output", p.OutputPath)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	writeHeader(pdf, tr, p)
	writeSummary(pdf, tr, p, len(findings))
	writeMethodology(pdf, tr)
	writeFindings(pdf, tr, findings)
	writeTechnical(pdf, tr, p)
	writeSignature(pdf, tr, p)

	if err := pdf.OutputFileAndClose(p.OutputPath); err != nil {
		return fmt.Errorf("write report %q: %w", p.OutputPath, err)
	}
	slog.Debug("forensic report generated", "output", p.OutputPath)
	return nil
}

func sectionTitle(pdf *fpdf.Fpdf, tr func(string) string, title string) {
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func bodyText(pdf *fpdf.Fpdf, tr func(string) string, text string) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, tr(text), "", "L", false)
}

func writeHeader(pdf *fpdf.Fpdf, tr func(string) string, p Params) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr("DIGITALES FORENSIK-GUTACHTEN"), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 10, tr("Hash-Analyse Bericht"), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	rows := [][2]string{
		{"Berichtsdatum:", time.Now().Format(timeFormat) + " Uhr"},
	}
	if p.CaseNumber != "" {
		rows = append(rows, [2]string{"Aktenzeichen:", p.CaseNumber})
	}
	rows = append(rows,
		[2]string{"Gutachter/Ermittler:", p.Investigator},
		[2]string{"Asservat-Pfad:", filepath.Base(p.EvidencePath)},
		[2]string{"Vollständiger Pfad:", p.EvidencePath},
	)

	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(45, 6, tr(row[0]), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, tr(row[1]), "", 1, "L", false, 0, "")
	}
}

func writeSummary(pdf *fpdf.Fpdf, tr func(string) string, p Params, count int) {
	sectionTitle(pdf, tr, "1. ZUSAMMENFASSUNG")
	bodyText(pdf, tr, fmt.Sprintf(
		"Dieser Bericht dokumentiert die Ergebnisse einer digitalen forensischen "+
			"Analyse des Datenträger-Images '%s'. Die Untersuchung erfolgte mittels "+
			"Hash-Wert-Abgleich gegen eine Referenzdatenbank bekannter Dateien.\n\n"+
			"Ergebnis der Analyse:\n"+
			"- Anzahl gefundener relevanter Dateien: %d\n"+
			"- Analysiertes Datenträger-Image: %s\n"+
			"- Verwendete Methodik: Hash-Wert-Abgleich (SHA-256, MD5, SHA-1)\n"+
			"- Integrität der Beweismittel: Gewährleistet durch unveränderliche Hash-Werte",
		filepath.Base(p.EvidencePath), count, filepath.Base(p.EvidencePath)))
}

func writeMethodology(pdf *fpdf.Fpdf, tr func(string) string) {
	sectionTitle(pdf, tr, "2. METHODIK UND VERFAHREN")
	bodyText(pdf, tr,
		"Die forensische Analyse wurde unter Einhaltung der Standards für digitale "+
			"Beweismittelsicherung durchgeführt:\n\n"+
			"2.1 Technisches Verfahren:\n"+
			"- Berechnung der Hash-Werte mit SHA-256, MD5 und SHA-1\n"+
			"- Vollständige Traversierung aller erreichbaren Dateien\n"+
			"- Vergleich mit Referenz-Hash-Datenbank (VIC-Hash Database)\n"+
			"- Keine Modifikation der ursprünglichen Beweismittel\n\n"+
			"2.2 Qualitätssicherung:\n"+
			"- Vollständige Dokumentation aller Analyseschritte\n"+
			"- Verwendung kryptographisch sicherer Hash-Funktionen\n"+
			"- Nachvollziehbare und reproduzierbare Methodik\n"+
			"- Einhaltung der Grundsätze der IT-Forensik nach BSI-Leitfaden")
}

func writeFindings(pdf *fpdf.Fpdf, tr func(string) string, findings []scan.Finding) {
	pdf.AddPage()
	sectionTitle(pdf, tr, "3. DETAILLIERTE ANALYSEERGEBNISSE")

	if len(findings) == 0 {
		bodyText(pdf, tr,
			"Bei der Analyse wurden keine Dateien gefunden, die mit den Hash-Werten "+
				"der Referenzdatenbank übereinstimmen.")
		return
	}

	bodyText(pdf, tr, fmt.Sprintf(
		"Die folgenden %d Dateien wurden identifiziert und entsprechen bekannten "+
			"Hash-Werten:", len(findings)))
	pdf.Ln(4)

	// Overview table.
	widths := []float64{10, 50, 25, 55, 30}
	headers := []string{"Nr.", "Dateiname", "Größe (Bytes)", "Hash", "Änderungsdatum"}
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(128, 128, 128)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 6, tr(h), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(0, 0, 0)
	for i, f := range findings {
		modified := "N/A"
		if f.Modified != nil {
			modified = f.Modified.Format("02.01.2006 15:04")
		}
		cols := []string{
			fmt.Sprintf("%d", i+1),
			f.FileName,
			humanize.Comma(f.FileSize),
			truncateHash(f.HashValue),
			modified,
		}
		for j, c := range cols {
			pdf.CellFormat(widths[j], 6, tr(c), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)

	// Per-finding detail blocks.
	sectionTitle(pdf, tr, "3.1 Detaillierte Fundstellen")
	for i, f := range findings {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("Fund Nr. %d:", i+1)), "", 1, "L", false, 0, "")

		details := fmt.Sprintf("Dateiname: %s\nVollständiger Pfad: %s\nDateigröße: %s Bytes\nHash-Wert: %s\n",
			f.FileName, f.FilePath, humanize.Comma(f.FileSize), f.HashValue)
		if f.Created != nil {
			details += fmt.Sprintf("Erstellungsdatum: %s\n", f.Created.Format(timeFormat))
		}
		if f.Modified != nil {
			details += fmt.Sprintf("Änderungsdatum: %s\n", f.Modified.Format(timeFormat))
		}
		if f.Accessed != nil {
			details += fmt.Sprintf("Zugriffsdatum: %s\n", f.Accessed.Format(timeFormat))
		}
		if f.PartitionOffset != 0 {
			details += fmt.Sprintf("Partition Offset: %d\n", f.PartitionOffset)
		}

		pdf.SetFont("Courier", "", 9)
		pdf.SetLeftMargin(27)
		pdf.MultiCell(0, 4.5, tr(details), "", "L", false)
		pdf.SetLeftMargin(20)
		pdf.Ln(3)
	}
}

func writeTechnical(pdf *fpdf.Fpdf, tr func(string) string, p Params) {
	sectionTitle(pdf, tr, "4. TECHNISCHE DETAILS")

	var size int64
	modified := time.Now()
	if st, err := os.Stat(p.EvidencePath); err == nil {
		size = st.Size()
		modified = st.ModTime()
	}

	bodyText(pdf, tr, fmt.Sprintf(
		"4.1 Asservat-Informationen:\n"+
			"- Dateipfad: %s\n"+
			"- Dateigröße: %s Bytes (%s)\n"+
			"- Letzte Änderung: %s\n\n"+
			"4.2 Verwendete Software:\n"+
			"- HashHound Forensic Analysis Tool\n"+
			"- SHA-256, MD5 und SHA-1 kryptographische Hash-Funktionen\n\n"+
			"4.3 Integrität und Nachvollziehbarkeit:\n"+
			"- Die Analyse erfolgte auf einem unveränderlichen Image\n"+
			"- Vollständige Protokollierung aller Analyseschritte\n"+
			"- Reproduzierbare Ergebnisse durch deterministische Verfahren",
		p.EvidencePath, humanize.Comma(size), humanize.Bytes(uint64(size)),
		modified.Format(timeFormat)))
}

func writeSignature(pdf *fpdf.Fpdf, tr func(string) string, p Params) {
	sectionTitle(pdf, tr, "5. BESTÄTIGUNG UND UNTERSCHRIFT")
	bodyText(pdf, tr, fmt.Sprintf(
		"Hiermit bestätige ich, dass die vorliegende Analyse nach bestem Wissen und "+
			"Gewissen sowie unter Einhaltung der geltenden Standards für digitale "+
			"Forensik durchgeführt wurde.\n\n"+
			"Die dokumentierten Ergebnisse entsprechen den tatsächlichen Befunden der "+
			"technischen Untersuchung. Die verwendeten Methoden sind wissenschaftlich "+
			"anerkannt und gerichtsverwertbar.\n\n\n"+
			"Ort, Datum: _________________, %s\n\n\n\n"+
			"________________________________\n"+
			"%s\n"+
			"Digitaler Forensik-Experte / Ermittler",
		time.Now().Format(dateFormat), p.Investigator))
}

// truncateHash shortens a digest for the overview table; the full value
// appears in the detail block.
func truncateHash(h string) string {
	if len(h) <= 16 {
		return h
	}
	return h[:16] + "..."
}
