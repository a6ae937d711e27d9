package pdf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecoder_Metadata(t *testing.T) {
	d := New()
	assert.Equal(t, "pdf", d.Name())
	assert.Equal(t, []string{".pdf"}, d.Extensions())
	assert.Equal(t, []string{"application/pdf"}, d.MIMETypes())
}

func TestDecode_NotPDF(t *testing.T) {
	_, err := New().Decode(context.Background(), []byte("this is not a pdf"))
	assert.ErrorContains(t, err, "open pdf")
}

func TestDecode_Truncated(t *testing.T) {
	_, err := New().Decode(context.Background(), []byte("%PDF-1.4\n1 0 obj\n<<"))
	assert.Error(t, err)
}
