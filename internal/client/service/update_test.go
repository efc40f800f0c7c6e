package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngx/internal/client/models"
	"ngx/internal/client/service"
	"ngx/internal/events"
	"ngx/pkg/domain"
	dErrors "ngx/pkg/domain-errors"
	"ngx/pkg/requestcontext"
)

func strptr(s string) *string { return &s }

func mustCreate(t *testing.T, svc *service.Service, req *models.CreateClientRequest) domain.ClientID {
	t.Helper()
	resp, err := svc.CreateClient(testCtx(), req)
	require.NoError(t, err)
	id, err := domain.ParseClientID(resp.ID)
	require.NoError(t, err)
	return id
}

func TestUpdateClient(t *testing.T) {
	t.Run("applies only the fields present", func(t *testing.T) {
		svc, _, pub := newTestService(t)
		id := mustCreate(t, svc, &models.CreateClientRequest{
			Name:        "Maria Lopez",
			Email:       "maria@example.com",
			Phone:       "415-555-0134",
			ProgramType: "prime",
		})
		pub.Clear()

		later := testNow.Add(time.Hour)
		resp, err := svc.UpdateClient(requestcontext.WithTime(context.Background(), later), id, &models.UpdateClientRequest{
			Name: strptr("Maria Lopez-Garcia"),
		})
		require.NoError(t, err)

		assert.Equal(t, "Maria Lopez-Garcia", resp.Name)
		assert.Equal(t, "maria@example.com", resp.Email, "untouched fields survive")
		assert.Equal(t, "4155550134", resp.Phone)
		assert.Equal(t, testNow, resp.CreatedAt)
		assert.Equal(t, later, resp.UpdatedAt)

		updated := pub.ByType(events.TypeClientUpdated)
		require.Len(t, updated, 1)
		assert.Equal(t, id.String(), updated[0].ClientID)
	})

	t.Run("routes a requested status through guarded transitions", func(t *testing.T) {
		cases := []struct {
			name       string
			from       string
			to         string
			wantStatus string
			wantErr    bool
		}{
			{name: "trial activates", from: "trial", to: "active", wantStatus: "active"},
			{name: "active pauses", from: "active", to: "paused", wantStatus: "paused"},
			{name: "paused resumes", from: "paused", to: "active", wantStatus: "active"},
			{name: "active deactivates", from: "active", to: "inactive", wantStatus: "inactive"},
			{name: "trial cancels", from: "trial", to: "cancelled", wantStatus: "cancelled"},
			{name: "same status is a no-op", from: "active", to: "active", wantStatus: "active"},
			{name: "trial cannot pause", from: "trial", to: "paused", wantErr: true},
			{name: "inactive cannot pause", from: "inactive", to: "paused", wantErr: true},
			{name: "nothing reaches trial", from: "active", to: "trial", wantErr: true},
			{name: "cancelled is terminal", from: "cancelled", to: "active", wantErr: true},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				svc, _, _ := newTestService(t)
				id := mustCreate(t, svc, &models.CreateClientRequest{
					Name:        "Maria Lopez",
					Email:       "maria@example.com",
					ProgramType: "prime",
					Status:      tc.from,
				})

				resp, err := svc.UpdateClient(testCtx(), id, &models.UpdateClientRequest{Status: &tc.to})
				if tc.wantErr {
					require.Error(t, err)
					assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidStatus), "got %v", err)

					current, getErr := svc.GetClient(testCtx(), id)
					require.NoError(t, getErr)
					assert.Equal(t, tc.from, current.Status, "failed transition leaves status unchanged")
					return
				}
				require.NoError(t, err)
				assert.Equal(t, tc.wantStatus, resp.Status)
			})
		}
	})

	t.Run("changing email checks uniqueness", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		id := mustCreate(t, svc, &models.CreateClientRequest{Name: "Maria Lopez", Email: "maria@example.com", ProgramType: "prime"})
		mustCreate(t, svc, &models.CreateClientRequest{Name: "Jon Snow", Email: "jon@example.com", ProgramType: "longevity"})

		_, err := svc.UpdateClient(testCtx(), id, &models.UpdateClientRequest{Email: strptr("jon@example.com")})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict), "got %v", err)
	})

	t.Run("re-submitting the current email is not a conflict", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		id := mustCreate(t, svc, &models.CreateClientRequest{Name: "Maria Lopez", Email: "maria@example.com", ProgramType: "prime"})

		resp, err := svc.UpdateClient(testCtx(), id, &models.UpdateClientRequest{Email: strptr("MARIA@example.com")})
		require.NoError(t, err)
		assert.Equal(t, "maria@example.com", resp.Email)
	})

	t.Run("merges metadata keys", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		id := mustCreate(t, svc, &models.CreateClientRequest{Name: "Maria Lopez", Email: "maria@example.com", ProgramType: "prime"})

		first := map[string]any{"source": "referral", "coach": "sam"}
		_, err := svc.UpdateClient(testCtx(), id, &models.UpdateClientRequest{Metadata: &first})
		require.NoError(t, err)

		second := map[string]any{"coach": "alex"}
		resp, err := svc.UpdateClient(testCtx(), id, &models.UpdateClientRequest{Metadata: &second})
		require.NoError(t, err)

		assert.Equal(t, "referral", resp.Metadata["source"], "existing keys survive")
		assert.Equal(t, "alex", resp.Metadata["coach"], "submitted keys overwrite")
	})

	t.Run("program type cannot change on a cancelled client", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		id := mustCreate(t, svc, &models.CreateClientRequest{Name: "Maria Lopez", Email: "maria@example.com", ProgramType: "prime", Status: "cancelled"})

		_, err := svc.UpdateClient(testCtx(), id, &models.UpdateClientRequest{ProgramType: strptr("hybrid")})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidStatus), "got %v", err)
	})

	t.Run("unknown client", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.UpdateClient(testCtx(), domain.NewClientID(), &models.UpdateClientRequest{Name: strptr("Nobody Here")})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound), "got %v", err)
	})

	t.Run("sequential updates apply last writer wins", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		id := mustCreate(t, svc, &models.CreateClientRequest{Name: "Maria Lopez", Email: "maria@example.com", ProgramType: "prime"})

		_, err := svc.UpdateClient(testCtx(), id, &models.UpdateClientRequest{Name: strptr("First Writer")})
		require.NoError(t, err)
		resp, err := svc.UpdateClient(testCtx(), id, &models.UpdateClientRequest{Name: strptr("Second Writer")})
		require.NoError(t, err)

		assert.Equal(t, "Second Writer", resp.Name)
	})
}
