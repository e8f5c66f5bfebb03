package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filterFrom(t *testing.T, query string) (auditFilter, string, bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/audit-logs?"+query, nil)
	return parseAuditFilter(c)
}

func TestParseAuditFilterDefaults(t *testing.T) {
	f, _, ok := filterFrom(t, "page=0&limit=1000")
	require.True(t, ok)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, auditDefaultLimit, f.Limit)
	assert.Nil(t, f.From)
	assert.Nil(t, f.EntityID)
}

func TestParseAuditFilterValues(t *testing.T) {
	id := uuid.New()

	f, _, ok := filterFrom(t, "action=hold_created&entity_id="+id.String()+"&from=2026-03-01&to=2026-03-02&page=3&limit=20")
	require.True(t, ok)
	assert.Equal(t, "hold_created", f.Action)
	require.NotNil(t, f.EntityID)
	assert.Equal(t, id, *f.EntityID)
	assert.Equal(t, "2026-03-01", f.From.Format(dateLayout))
	assert.Equal(t, "2026-03-03", f.To.Format(dateLayout))
	assert.Equal(t, 3, f.Page)
	assert.Equal(t, 20, f.Limit)
}

func TestParseAuditFilterRejects(t *testing.T) {
	_, code, ok := filterFrom(t, "user_id=nope")
	assert.False(t, ok)
	assert.Equal(t, "invalid_user_id", code)

	_, code, ok = filterFrom(t, "to=02/03/2026")
	assert.False(t, ok)
	assert.Equal(t, "invalid_to", code)
}
