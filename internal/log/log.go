// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package log

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Formatter writes entries as "2006/01/02 15:04:05 |LEVL| message key=value ...".
type Formatter struct {
	// DisableTimestamp drops the time prefix, e.g. for golden output in tests.
	DisableTimestamp bool
}

func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	if !f.DisableTimestamp {
		b.WriteString(entry.Time.Format("2006/01/02 15:04:05"))
		b.WriteByte(' ')
	}
	fmt.Fprintf(b, "|%.4s| ", entry.Level)
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, " %s=%v", k, entry.Data[k])
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

// New returns a logger writing to 'out' at the given level ("debug", "info",
// "warn" or "error").
func New(level string, out io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", level)
	}
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(lvl)
	l.SetFormatter(&Formatter{})
	return l, nil
}
