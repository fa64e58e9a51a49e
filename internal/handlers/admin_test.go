package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"verity/internal/models"
	"verity/internal/services/audit"
	"verity/internal/services/verification"
	"verity/internal/storage"

	"github.com/stretchr/testify/assert"
)

func TestAdminReview_InvalidTransitionGetsBadRequest(t *testing.T) {
	tenants := &stubTenantRepo{tenant: &models.Tenant{EligibilityStatus: models.StatusVerified}}
	svc := verification.NewService(nil, tenants, &stubDocumentRepo{}, audit.NewService(&stubAuditRepo{}), storage.NewMemoryStore(), nil)
	h := NewAdminHandler(nil, svc, nil)

	app := appWithClaims(adminClaims())
	app.Patch("/api/admin/verification/:tenantId", h.Review)

	body, err := json.Marshal(map[string]string{"action": verification.ActionReject, "notes": "revoked"})
	assert.NoError(t, err)
	req := httptest.NewRequest("PATCH", "/api/admin/verification/1", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}
