package safe_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/initiativeflow/pkg/utils/safe"
)

type failingCloser struct{ closed bool }

func (f *failingCloser) Close() error {
	f.closed = true
	return errors.New("close failed")
}

func TestClose(t *testing.T) {
	safe.Close(context.Background(), nil)

	c := &failingCloser{}
	safe.Close(context.Background(), c)
	gt.Bool(t, c.closed).True()
}

func TestCopy(t *testing.T) {
	var buf bytes.Buffer
	n := safe.Copy(context.Background(), &buf, strings.NewReader("attachment body"))
	gt.Number(t, n).Equal(int64(15))
	gt.Value(t, buf.String()).Equal("attachment body")
}
