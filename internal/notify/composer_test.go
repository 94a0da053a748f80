package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "Wifi issue", Subject("wifi issue"))
	assert.Equal(t, "Wifi issue", Subject("  wifi issue"))
	assert.Equal(t, "Broken AC", Subject("Broken AC"))
	assert.Equal(t, "Complaint registered", Subject(""))
}

func TestComplaintAck(t *testing.T) {
	n, err := ComplaintAck(ComplaintFields{
		RecordID:    "64f0c2",
		FullName:    "Asha",
		Email:       "asha@x.com",
		Title:       "wifi issue",
		Description: "no signal",
		MediaURL:    "https://media.example/x.png",
	})
	require.NoError(t, err)

	assert.Equal(t, "asha@x.com", n.Recipient)
	assert.Equal(t, "Wifi issue", n.Subject)
	assert.Contains(t, n.HTMLBody, "64f0c2")
	assert.Contains(t, n.HTMLBody, "Asha")
	assert.Contains(t, n.HTMLBody, "https://media.example/x.png")
}

func TestComplaintAlert(t *testing.T) {
	n, err := ComplaintAlert(ComplaintFields{
		RecordID: "64f0c2",
		FullName: "Asha",
		Email:    "asha@x.com",
		Title:    "wifi issue",
	}, "ops@campushub.local")
	require.NoError(t, err)

	assert.Equal(t, "ops@campushub.local", n.Recipient)
	assert.Contains(t, n.Subject, "Wifi issue")
	assert.Contains(t, n.HTMLBody, "asha@x.com")
}

func TestTemplatesEscapeHTML(t *testing.T) {
	n, err := ComplaintAck(ComplaintFields{
		Email:       "a@x.com",
		Title:       "t",
		Description: "<script>alert(1)</script>",
	})
	require.NoError(t, err)
	assert.NotContains(t, n.HTMLBody, "<script>")
}
