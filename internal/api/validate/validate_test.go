package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	assert.NoError(t, Email("a@b.co"))
	assert.Error(t, Email(""))
	assert.Error(t, Email("not-an-email"))
	assert.Error(t, Email("a b@c.co"))
}

func TestCreateUser(t *testing.T) {
	assert.NoError(t, CreateUser("asha", "asha@x.com", "longenough"))
	assert.Error(t, CreateUser("", "asha@x.com", "longenough"))
	assert.Error(t, CreateUser("asha", "bad", "longenough"))
	assert.Error(t, CreateUser("asha", "asha@x.com", "short"))
}

func TestComplaint(t *testing.T) {
	assert.NoError(t, Complaint("Asha", "asha@x.com", "wifi issue", "no signal"))
	assert.Error(t, Complaint("", "asha@x.com", "wifi issue", "no signal"))
	assert.Error(t, Complaint("Asha", "asha@x.com", "", "no signal"))
	assert.Error(t, Complaint("Asha", "asha@x.com", "wifi issue", ""))
	assert.Error(t, Complaint("Asha", "asha@x.com", strings.Repeat("x", 201), "d"))
}
