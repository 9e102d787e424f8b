package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	mw "github.com/modernmember/member-directory/internal/api/middleware"
	"github.com/modernmember/member-directory/internal/core/domain"
	"github.com/modernmember/member-directory/internal/core/ports"
)

type stubMemberService struct {
	listFn           func(ctx context.Context, actor *domain.Principal) ([]domain.Member, error)
	getFn            func(ctx context.Context, actor *domain.Principal, id string) (*domain.Member, error)
	updateFn         func(ctx context.Context, actor *domain.Principal, id string, input ports.UpdateMemberInput) (*domain.Member, error)
	deleteFn         func(ctx context.Context, actor *domain.Principal, id string) error
	updateRoleFn     func(ctx context.Context, actor *domain.Principal, id, role string) error
	changePasswordFn func(ctx context.Context, actor *domain.Principal, id, oldPassword, newPassword string) error
}

func (s *stubMemberService) List(ctx context.Context, actor *domain.Principal) ([]domain.Member, error) {
	return s.listFn(ctx, actor)
}

func (s *stubMemberService) Get(ctx context.Context, actor *domain.Principal, id string) (*domain.Member, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubMemberService) Update(ctx context.Context, actor *domain.Principal, id string, input ports.UpdateMemberInput) (*domain.Member, error) {
	return s.updateFn(ctx, actor, id, input)
}

func (s *stubMemberService) Delete(ctx context.Context, actor *domain.Principal, id string) error {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubMemberService) UpdateRole(ctx context.Context, actor *domain.Principal, id, role string) error {
	return s.updateRoleFn(ctx, actor, id, role)
}

func (s *stubMemberService) ChangePassword(ctx context.Context, actor *domain.Principal, id, oldPassword, newPassword string) error {
	return s.changePasswordFn(ctx, actor, id, oldPassword, newPassword)
}

func memberContext(method, target, body string, principal *domain.Principal) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if principal != nil {
		c.Set(mw.PrincipalKey, principal)
	}
	return c, rec
}

func TestMemberHandler_List(t *testing.T) {
	user := &domain.Principal{ID: "m1", Handle: "alice", Role: domain.RoleUser}
	svc := &stubMemberService{
		listFn: func(_ context.Context, actor *domain.Principal) ([]domain.Member, error) {
			if actor == nil || actor.ID != "m1" {
				t.Fatalf("principal not forwarded: %+v", actor)
			}
			return []domain.Member{
				{ID: "m1", Handle: "alice", Role: domain.RoleUser},
				{ID: "m2", Handle: "bob", Role: domain.RoleUser},
			}, nil
		},
	}
	h := NewMemberHandler(svc)

	c, rec := memberContext(http.MethodGet, "/api/v1/members", "", user)
	if err := h.List(c); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []memberResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 2 || resp[0].Handle != "alice" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestMemberHandler_Get_ForwardsPathParam(t *testing.T) {
	svc := &stubMemberService{
		getFn: func(_ context.Context, _ *domain.Principal, id string) (*domain.Member, error) {
			if id != "m2" {
				t.Fatalf("expected id m2, got %q", id)
			}
			return &domain.Member{ID: "m2", Handle: "bob"}, nil
		},
	}
	h := NewMemberHandler(svc)

	c, rec := memberContext(http.MethodGet, "/api/v1/members/m2", "", &domain.Principal{ID: "a1", Role: domain.RoleAdmin})
	c.SetParamNames("id")
	c.SetParamValues("m2")
	if err := h.Get(c); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestMemberHandler_Me(t *testing.T) {
	user := &domain.Principal{ID: "m1", Handle: "alice", Role: domain.RoleUser}
	svc := &stubMemberService{
		getFn: func(_ context.Context, actor *domain.Principal, id string) (*domain.Member, error) {
			if id != "m1" {
				t.Fatalf("me must resolve to the caller's own id, got %q", id)
			}
			return &domain.Member{ID: "m1", Handle: "alice"}, nil
		},
	}
	h := NewMemberHandler(svc)

	c, rec := memberContext(http.MethodGet, "/api/v1/members/me", "", user)
	if err := h.Me(c); err != nil {
		t.Fatalf("me failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestMemberHandler_Update_PropagatesDomainError(t *testing.T) {
	svc := &stubMemberService{
		updateFn: func(context.Context, *domain.Principal, string, ports.UpdateMemberInput) (*domain.Member, error) {
			return nil, domain.ErrLastAdmin
		},
	}
	h := NewMemberHandler(svc)

	body := `{"name":"Root","email":"root@example.com","phone":"+15550009999","role":"USER"}`
	c, _ := memberContext(http.MethodPut, "/api/v1/members/a1", body, &domain.Principal{ID: "a1", Role: domain.RoleAdmin})
	c.SetParamNames("id")
	c.SetParamValues("a1")
	if err := h.Update(c); err != domain.ErrLastAdmin {
		t.Fatalf("expected ErrLastAdmin to propagate, got %v", err)
	}
}

func TestMemberHandler_Delete(t *testing.T) {
	deleted := ""
	svc := &stubMemberService{
		deleteFn: func(_ context.Context, _ *domain.Principal, id string) error {
			deleted = id
			return nil
		},
	}
	h := NewMemberHandler(svc)

	c, rec := memberContext(http.MethodDelete, "/api/v1/members/m2", "", &domain.Principal{ID: "a1", Role: domain.RoleAdmin})
	c.SetParamNames("id")
	c.SetParamValues("m2")
	if err := h.Delete(c); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if deleted != "m2" {
		t.Fatalf("expected m2 deleted, got %q", deleted)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestMemberHandler_UpdateRole(t *testing.T) {
	svc := &stubMemberService{
		updateRoleFn: func(_ context.Context, actor *domain.Principal, id, role string) error {
			if actor == nil || actor.Role != domain.RoleAdmin {
				t.Fatalf("expected admin actor, got %+v", actor)
			}
			if id != "m2" || role != "ADMIN" {
				t.Fatalf("unexpected arguments: id=%q role=%q", id, role)
			}
			return nil
		},
	}
	h := NewMemberHandler(svc)

	c, rec := memberContext(http.MethodPut, "/api/v1/members/m2/role", `{"role":"ADMIN"}`, &domain.Principal{ID: "a1", Role: domain.RoleAdmin})
	c.SetParamNames("id")
	c.SetParamValues("m2")
	if err := h.UpdateRole(c); err != nil {
		t.Fatalf("role update failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestMemberHandler_UpdateRole_MissingRole(t *testing.T) {
	h := NewMemberHandler(&stubMemberService{
		updateRoleFn: func(context.Context, *domain.Principal, string, string) error {
			t.Fatal("service must not be called on invalid payload")
			return nil
		},
	})

	c, _ := memberContext(http.MethodPut, "/api/v1/members/m2/role", `{}`, &domain.Principal{ID: "a1", Role: domain.RoleAdmin})
	err := h.UpdateRole(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestMemberHandler_ChangePassword_ShortPasswordRejected(t *testing.T) {
	h := NewMemberHandler(&stubMemberService{
		changePasswordFn: func(context.Context, *domain.Principal, string, string, string) error {
			t.Fatal("service must not be called on invalid payload")
			return nil
		},
	})

	body := `{"old_password":"s3cret!!","new_password":"short"}`
	c, _ := memberContext(http.MethodPut, "/api/v1/members/m1/password", body, &domain.Principal{ID: "m1", Role: domain.RoleUser})
	err := h.ChangePassword(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestMemberHandler_ChangePassword(t *testing.T) {
	svc := &stubMemberService{
		changePasswordFn: func(_ context.Context, actor *domain.Principal, id, oldPassword, newPassword string) error {
			if actor == nil || actor.ID != "m1" || id != "m1" {
				t.Fatalf("unexpected actor/id: %+v / %q", actor, id)
			}
			if oldPassword != "s3cret!!" || newPassword != "newpass99" {
				t.Fatalf("unexpected passwords: %q / %q", oldPassword, newPassword)
			}
			return nil
		},
	}
	h := NewMemberHandler(svc)

	body := `{"old_password":"s3cret!!","new_password":"newpass99"}`
	c, rec := memberContext(http.MethodPut, "/api/v1/members/m1/password", body, &domain.Principal{ID: "m1", Role: domain.RoleUser})
	c.SetParamNames("id")
	c.SetParamValues("m1")
	if err := h.ChangePassword(c); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
