package manifest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharoslabs/pharos/internal/core/domain"
)

func TestParse_Basic(t *testing.T) {
	in := `
# web stack
fastapi==0.110.0
uvicorn>=0.27,<0.30
sqlalchemy~=2.0.25

python-dotenv  # loaded at startup
`
	m, err := Parse(strings.NewReader(in))
	require.NoError(t, err)

	require.Len(t, m.Requirements, 4)
	assert.Equal(t, domain.Requirement{Name: "fastapi", Constraint: "==0.110.0"}, m.Requirements[0])
	assert.Equal(t, domain.Requirement{Name: "uvicorn", Constraint: ">=0.27,<0.30"}, m.Requirements[1])
	assert.Equal(t, domain.Requirement{Name: "sqlalchemy", Constraint: "~=2.0.25"}, m.Requirements[2])
	assert.Equal(t, domain.Requirement{Name: "python-dotenv", Constraint: ""}, m.Requirements[3])
}

func TestParse_PreservesOrder(t *testing.T) {
	m, err := Parse(strings.NewReader("b==1.0.0\na==2.0.0\n"))
	require.NoError(t, err)
	assert.Equal(t, "b", m.Requirements[0].Name)
	assert.Equal(t, "a", m.Requirements[1].Name)
}

func TestParse_RejectsDuplicates(t *testing.T) {
	_, err := Parse(strings.NewReader("requests==2.31.0\nRequests>=2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestParse_RejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"bad operator":   "requests=2.31.0",
		"bare operator":  "requests==",
		"leading dash":   "-requests==1.0",
		"spaces in name": "my package==1.0",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestParse_EmptyManifestIsValid(t *testing.T) {
	m, err := Parse(strings.NewReader("# nothing but comments\n\n"))
	require.NoError(t, err)
	assert.Empty(t, m.Requirements)
}
