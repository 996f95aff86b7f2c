package rest

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/apptracker/internal/domain"
	"github.com/heartmarshall/apptracker/internal/service/application"
)

func TestApplication_Create(t *testing.T) {
	t.Parallel()

	var got application.CreateInput
	svc := &applicationServiceMock{
		CreateFunc: func(_ context.Context, input application.CreateInput) (domain.Application, error) {
			got = input
			return domain.Application{ID: 11, Name: input.Name, Status: domain.ApplicationStatusDraft, OwnerUserID: 1}, nil
		},
	}
	h := newTestRouter(t, testServices{applications: svc})

	rec := doRequest(t, h, http.MethodPost, "/api/applications", "application/json",
		`{"name":"Billing","short_name":"BILL","related_applications":[2,3]}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Billing", got.Name)
	assert.Equal(t, []int64{2, 3}, got.RelatedApplications)

	body := decodeBody(t, rec)
	app := body["application"].(map[string]any)
	assert.Equal(t, float64(11), app["id"])
	assert.Equal(t, "Draft", app["status"])
	assert.Equal(t, []any{}, app["related_applications"])
}

func TestApplication_Update_UsesPathID(t *testing.T) {
	t.Parallel()

	var got application.UpdateInput
	svc := &applicationServiceMock{
		UpdateFunc: func(_ context.Context, input application.UpdateInput) (domain.Application, error) {
			got = input
			return domain.Application{ID: input.ID, Status: *input.Status}, nil
		},
	}
	h := newTestRouter(t, testServices{applications: svc})

	rec := doRequest(t, h, http.MethodPatch, "/api/applications/4", "application/json", `{"id":99,"status":"Active"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(4), got.ID)
	assert.Nil(t, got.Name)
	require.NotNil(t, got.Status)
	assert.Equal(t, domain.ApplicationStatusActive, *got.Status)
}

func TestApplication_GetAndList(t *testing.T) {
	t.Parallel()

	var gotLimit, gotOffset int
	svc := &applicationServiceMock{
		GetFunc: func(_ context.Context, id int64) (domain.Application, error) {
			if id != 1 {
				return domain.Application{}, domain.ErrNotFound
			}
			return domain.Application{ID: 1, Name: "CRM", RelatedApplications: []int64{2}}, nil
		},
		ListFunc: func(_ context.Context, limit, offset int) ([]domain.Application, error) {
			gotLimit, gotOffset = limit, offset
			return []domain.Application{{ID: 1}, {ID: 2}}, nil
		},
	}
	h := newTestRouter(t, testServices{applications: svc})

	rec := doRequest(t, h, http.MethodGet, "/api/applications/1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	app := decodeBody(t, rec)["application"].(map[string]any)
	assert.Equal(t, "CRM", app["name"])
	assert.Equal(t, []any{float64(2)}, app["related_applications"])

	assert.Equal(t, http.StatusNotFound, doRequest(t, h, http.MethodGet, "/api/applications/2", "", "").Code)

	rec = doRequest(t, h, http.MethodGet, "/api/applications?limit=10&offset=20", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["applications"], 2)
	assert.Equal(t, 10, gotLimit)
	assert.Equal(t, 20, gotOffset)
}

func TestApplication_Forbidden(t *testing.T) {
	t.Parallel()

	svc := &applicationServiceMock{
		UpdateFunc: func(context.Context, application.UpdateInput) (domain.Application, error) {
			return domain.Application{}, domain.NewForbiddenError("only the owner can edit this application")
		},
	}
	h := newTestRouter(t, testServices{applications: svc})

	rec := doRequest(t, h, http.MethodPatch, "/api/applications/4", "application/json", `{"name":"x"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "only the owner can edit this application", decodeBody(t, rec)["error"])
}
