// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package log

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatter(t *testing.T) {
	f := &Formatter{}
	entry := &logrus.Entry{
		Time:    time.Date(2022, 3, 4, 5, 6, 7, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "hello",
		Data:    logrus.Fields{"b": 2, "a": "x"},
	}
	out, err := f.Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "2022/03/04 05:06:07 |warn| hello a=x b=2\n", string(out))

	f.DisableTimestamp = true
	out, err = f.Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "|warn| hello a=x b=2\n", string(out))
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("warn", &buf)
	require.NoError(t, err)

	l.Info("dropped")
	l.WithError(errors.New("boom")).Error("failed")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "|erro| failed error=boom")

	_, err = New("loud", &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}
