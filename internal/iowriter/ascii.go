// Package iowriter defines the Writer collaborator the routine loop
// uses to decide when to persist fields/populations and hands them
// off to, plus an ASCII/CSV reference implementation. The original's
// reference format (HDF5 with XDMF side-cars) is out of scope: this
// package exists so the routine loop has a concrete, testable
// collaborator without pulling in an HDF5 binding.
package iowriter

import (
	"fmt"
	"io"
	"strings"
)

// Writer is consumed by the outer iteration loop to decide, every
// iteration, whether to persist fields, analyses, or a full
// distribution backup, and to receive whatever gets written.
type Writer interface {
	GetIsWritten(iteration int) bool
	GetIsAnalyzed(iteration int) bool
	GetIsBackedUp(iteration int) bool
	OpenFile(iteration int) error
	WriteField(name string, data []float64) error
	WriteDistribution(data []float64) error
	CloseFile() error
}

// ASCIIWriter writes one CSV file per OpenFile/CloseFile pair, one
// row per field write, suited to small reference-run outputs and
// tests rather than production-scale field dumps.
type ASCIIWriter struct {
	writeEvery   int
	analyzeEvery int
	backupEvery  int
	newWriter    func(iteration int) (io.WriteCloser, error)
	current      io.WriteCloser
	currentIter  int
}

// NewASCIIWriter builds a writer that gates writes/analyses/backups
// on simple modulo periods (0 disables that category) and hands new
// files to newWriter, letting callers redirect output (a real file,
// an in-memory buffer for tests).
func NewASCIIWriter(writeEvery, analyzeEvery, backupEvery int, newWriter func(iteration int) (io.WriteCloser, error)) *ASCIIWriter {
	return &ASCIIWriter{
		writeEvery:   writeEvery,
		analyzeEvery: analyzeEvery,
		backupEvery:  backupEvery,
		newWriter:    newWriter,
	}
}

func (w *ASCIIWriter) GetIsWritten(iteration int) bool {
	return everyN(iteration, w.writeEvery)
}

func (w *ASCIIWriter) GetIsAnalyzed(iteration int) bool {
	return everyN(iteration, w.analyzeEvery)
}

func (w *ASCIIWriter) GetIsBackedUp(iteration int) bool {
	return everyN(iteration, w.backupEvery)
}

func everyN(iteration, period int) bool {
	return period > 0 && iteration%period == 0
}

func (w *ASCIIWriter) OpenFile(iteration int) error {
	f, err := w.newWriter(iteration)
	if err != nil {
		return fmt.Errorf("iowriter: opening output for iteration %d: %w", iteration, err)
	}
	w.current = f
	w.currentIter = iteration
	return nil
}

func (w *ASCIIWriter) WriteField(name string, data []float64) error {
	if w.current == nil {
		return fmt.Errorf("iowriter: WriteField called without an open file")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "field,%s,%d\n", name, w.currentIter)
	for _, v := range data {
		fmt.Fprintf(&b, "%.17g\n", v)
	}
	_, err := io.WriteString(w.current, b.String())
	return err
}

func (w *ASCIIWriter) WriteDistribution(data []float64) error {
	if w.current == nil {
		return fmt.Errorf("iowriter: WriteDistribution called without an open file")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "distribution,%d\n", w.currentIter)
	for _, v := range data {
		fmt.Fprintf(&b, "%.17g\n", v)
	}
	_, err := io.WriteString(w.current, b.String())
	return err
}

func (w *ASCIIWriter) CloseFile() error {
	if w.current == nil {
		return nil
	}
	err := w.current.Close()
	w.current = nil
	return err
}
