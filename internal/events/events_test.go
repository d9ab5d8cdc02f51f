package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/nursery/internal/domain"
)

type fakeConn struct {
	subject    string
	data       []byte
	publishErr error
	flushed    bool
	closed     bool
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	f.subject = subject
	f.data = data
	return f.publishErr
}

func (f *fakeConn) FlushWithContext(ctx context.Context) error {
	f.flushed = true
	return ctx.Err()
}

func (f *fakeConn) Close() { f.closed = true }

func Test_Connect_WithoutURL(t *testing.T) {
	p, err := Connect("", zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, NopPublisher{}, p)
	assert.NoError(t, p.CatalogUpdated(context.Background(), CatalogUpdated{}))
	p.Close()
}

func Test_NATSPublisher_CatalogUpdated(t *testing.T) {
	fc := &fakeConn{}
	p := newNATSPublisher(fc, zerolog.Nop())

	err := p.CatalogUpdated(context.Background(), CatalogUpdated{
		RunID:         "run-1",
		Command:       "import",
		CatalogPath:   "src/api/products.json",
		TotalProducts: 12,
		Inserted:      2,
		Updated:       10,
	})
	require.NoError(t, err)

	assert.Equal(t, SubjectCatalogUpdated, fc.subject)
	assert.True(t, fc.flushed)

	var got CatalogUpdated
	require.NoError(t, json.Unmarshal(fc.data, &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, 12, got.TotalProducts)
	assert.WithinDuration(t, time.Now(), got.OccurredAt, time.Minute)

	p.Close()
	assert.True(t, fc.closed)
}

func Test_NATSPublisher_Errors(t *testing.T) {
	fc := &fakeConn{publishErr: errors.New("connection closed")}
	p := newNATSPublisher(fc, zerolog.Nop())

	err := p.CatalogUpdated(context.Background(), CatalogUpdated{RunID: "x"})
	assert.True(t, domain.IsCode(err, domain.EINTERNAL))
	assert.False(t, fc.flushed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = newNATSPublisher(&fakeConn{}, zerolog.Nop()).CatalogUpdated(ctx, CatalogUpdated{})
	assert.Error(t, err)
}
