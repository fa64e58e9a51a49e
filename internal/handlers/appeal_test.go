package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"verity/internal/models"
	"verity/internal/services/appeal"
	"verity/internal/services/audit"

	"github.com/stretchr/testify/assert"
)

func submitAppealBody(t *testing.T, reason string) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{"reason": reason})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewBuffer(body)
}

func TestSubmitAppeal_InvalidStateGetsBadRequest(t *testing.T) {
	reason := strings.Repeat("Our accreditation paperwork was renewed last month. ", 2)

	tests := []struct {
		name    string
		tenant  *models.Tenant
		pending bool
	}{
		{
			name:   "tenant still pending has nothing to appeal",
			tenant: &models.Tenant{EligibilityStatus: models.StatusPending},
		},
		{
			name:    "second appeal while one is open",
			tenant:  &models.Tenant{EligibilityStatus: models.StatusRejected},
			pending: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tenants := &stubTenantRepo{tenant: tt.tenant}
			appeals := &stubAppealRepo{pending: tt.pending}
			svc := appeal.NewService(nil, appeals, tenants, audit.NewService(&stubAuditRepo{}), nil, nil)

			app := appWithClaims(ownerClaims(1))
			app.Post("/api/tenant/verification/appeal", NewAppealHandler(svc).Submit)

			req := httptest.NewRequest("POST", "/api/tenant/verification/appeal", submitAppealBody(t, reason))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			assert.NoError(t, err)
			assert.Equal(t, 400, resp.StatusCode)
		})
	}
}
