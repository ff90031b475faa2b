package reciparse_test

import (
	"testing"

	"github.com/fwojciec/reciparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	t.Parallel()

	t.Run("binary media is base64 and decodes to the original bytes", func(t *testing.T) {
		t.Parallel()

		raw := []byte{0x89, 'P', 'N', 'G', 0x00, 0xff}

		p, err := reciparse.Encode(raw, reciparse.MediaPNG)

		require.NoError(t, err)
		assert.Equal(t, reciparse.EncodingBase64, p.Encoding())
		assert.Equal(t, reciparse.MediaPNG, p.Media())
		assert.Equal(t, "iVBORwD/", p.Text())
		decoded, err := p.Decode()
		require.NoError(t, err)
		assert.Equal(t, raw, decoded)
	})

	t.Run("text is carried verbatim", func(t *testing.T) {
		t.Parallel()

		p, err := reciparse.Encode([]byte("2 eggs & 1 cup flour"), reciparse.MediaText)

		require.NoError(t, err)
		assert.Equal(t, reciparse.EncodingRawText, p.Encoding())
		assert.Equal(t, "2 eggs & 1 cup flour", p.Text())
	})

	t.Run("invalid UTF-8 text is an encoding error", func(t *testing.T) {
		t.Parallel()

		_, err := reciparse.Encode([]byte{0xff, 0xfe, 'a'}, reciparse.MediaText)

		var ee *reciparse.EncodingError
		require.ErrorAs(t, err, &ee)
		assert.Equal(t, reciparse.MediaText, ee.Media)
		assert.Equal(t, reciparse.StageEncode, reciparse.ErrorStage(err))
	})

	t.Run("unknown media is an encoding error", func(t *testing.T) {
		t.Parallel()

		_, err := reciparse.Encode([]byte("x"), reciparse.MediaType("application/zip"))

		assert.Equal(t, reciparse.EENCODING, reciparse.ErrorCode(err))
	})

	t.Run("data is a copy", func(t *testing.T) {
		t.Parallel()

		p, err := reciparse.Encode([]byte("abc"), reciparse.MediaText)
		require.NoError(t, err)

		data := p.Data()
		data[0] = 'z'

		assert.Equal(t, "abc", p.Text())
	})
}

func TestDecodeText(t *testing.T) {
	t.Parallel()

	t.Run("strips byte order mark", func(t *testing.T) {
		t.Parallel()

		text, err := reciparse.DecodeText([]byte("\xEF\xBB\xBFPancakes"))

		require.NoError(t, err)
		assert.Equal(t, "Pancakes", text)
	})

	t.Run("rejects invalid UTF-8", func(t *testing.T) {
		t.Parallel()

		_, err := reciparse.DecodeText([]byte{0xc3, 0x28})

		var ee *reciparse.EncodingError
		assert.ErrorAs(t, err, &ee)
	})
}
