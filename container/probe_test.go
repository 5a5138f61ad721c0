package container

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProbe_Container(t *testing.T) {
	h := FromDescriptor(sampleDescriptor())
	kind, err := Probe(h.Bytes())
	require.NoError(t, err)
	require.Equal(t, KindContainer, kind)
}

func TestProbe_SourceMzML(t *testing.T) {
	doc := []byte(`<?xml version="1.0"?><indexedmzML xmlns="http://psi.hupo.org/ms/mzml">`)
	kind, err := Probe(doc)
	require.NoError(t, err)
	require.Equal(t, KindSourceMzML, kind)
}

func TestProbe_Unknown(t *testing.T) {
	_, err := Probe([]byte("not a recognized file at all"))
	require.Error(t, err)
}

func TestProbe_TinyInput(t *testing.T) {
	_, err := Probe([]byte{0x01, 0x02})
	require.Error(t, err)
}
