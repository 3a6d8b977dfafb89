package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/mvalldaura/marketsearch/internal/session"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printSessionTable(infos []session.Info) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("QUERY\tLAST PAGE\tHAS MORE\tLAST ACCESSED\n")
	for i := range infos {
		tw.writef("%s\t%d\t%v\t%s\n",
			infos[i].Query,
			infos[i].LastPage,
			infos[i].HasMore,
			infos[i].LastAccessed.Format("2006-01-02 15:04:05"),
		)
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
