package admin

import (
	"context"
	"errors"
	"testing"

	memoryRepo "repairhub/database/repository/memory"
	"repairhub/models"
	"repairhub/utils"

	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
)

type fakeAuth struct {
	uid       string
	createErr error
	created   int
	deleted   []string
}

func (f *fakeAuth) CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created++
	return &auth.UserRecord{UserInfo: &auth.UserInfo{UID: f.uid}}, nil
}

func (f *fakeAuth) DeleteUser(ctx context.Context, uid string) error {
	f.deleted = append(f.deleted, uid)
	return nil
}

func newService(store *memoryRepo.Store, fa *fakeAuth) *DefaultAccountService {
	store.Admins["admin1"] = true
	return NewDefaultAccountService(fa, memoryRepo.UserRepo{S: store}, memoryRepo.TechnicianRepo{S: store}, zap.NewNop())
}

func validRequest() models.AccountRequest {
	return models.AccountRequest{Name: " Dana ", Email: "Dana@Example.com", Password: "secret1", Phone: "09171234567"}
}

func TestValidPhone(t *testing.T) {
	cases := map[string]bool{
		"09171234567":  true,
		"0917123456":   false,
		"091712345678": false,
		"0917-234567":  false,
		"+6391712345":  false,
		"":             false,
		"０9171234567":  false,
		"+9171234567":  false,
		"0917123456.":  false,
		"9.171234567":  false,
		"０９１７１２３４５６７":  false,
	}
	for in, want := range cases {
		if got := ValidPhone(in); got != want {
			t.Fatalf("ValidPhone(%q)=%v, want %v", in, got, want)
		}
	}
}

func TestCreateTechnician(t *testing.T) {
	store := memoryRepo.NewStore()
	svc := newService(store, &fakeAuth{uid: "new-tech"})

	acct, err := svc.CreateTechnician(context.Background(), "admin1", validRequest())
	if err != nil {
		t.Fatalf("CreateTechnician: %v", err)
	}
	if acct.UID != "new-tech" || acct.Role != models.RoleTechnician || acct.Email != "dana@example.com" {
		t.Fatalf("account=%+v", acct)
	}
	tech := store.Technicians["new-tech"]
	if tech.Status != models.TechnicianPending || tech.Submitted || tech.Name != "Dana" || tech.Phone != "09171234567" {
		t.Fatalf("profile=%+v", tech)
	}
}

func TestCreateUser(t *testing.T) {
	store := memoryRepo.NewStore()
	svc := newService(store, &fakeAuth{uid: "new-user"})

	if _, err := svc.CreateUser(context.Background(), "admin1", validRequest()); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	u, ok := store.Users["new-user"]
	if !ok || u.Role != models.RoleUser || u.CreatedAt == nil {
		t.Fatalf("profile=%+v ok=%v", u, ok)
	}
}

func TestCreateRequiresAdmin(t *testing.T) {
	fa := &fakeAuth{uid: "x"}
	svc := newService(memoryRepo.NewStore(), fa)
	if _, err := svc.CreateUser(context.Background(), "someone", validRequest()); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("err=%v, want ErrNotAdmin", err)
	}
	if fa.created != 0 {
		t.Fatalf("auth user created for non-admin caller")
	}
}

func TestCreateValidation(t *testing.T) {
	cases := []func(*models.AccountRequest){
		func(r *models.AccountRequest) { r.Email = "" },
		func(r *models.AccountRequest) { r.Email = "not-an-email" },
		func(r *models.AccountRequest) { r.Password = "12345" },
		func(r *models.AccountRequest) { r.Phone = "12345" },
		func(r *models.AccountRequest) { r.Phone = "0917123456a" },
	}
	for i, mutate := range cases {
		fa := &fakeAuth{uid: "x"}
		svc := newService(memoryRepo.NewStore(), fa)
		req := validRequest()
		mutate(&req)
		_, err := svc.CreateUser(context.Background(), "admin1", req)
		var ve *utils.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("case %d: err=%v, want ValidationError", i, err)
		}
		if fa.created != 0 {
			t.Fatalf("case %d: auth user created despite invalid input", i)
		}
	}
}

func TestProfileFailureRollsBackAuthUser(t *testing.T) {
	store := memoryRepo.NewStore()
	store.Technicians["taken"] = models.Technician{UID: "taken"}
	fa := &fakeAuth{uid: "taken"}
	svc := newService(store, fa)

	if _, err := svc.CreateTechnician(context.Background(), "admin1", validRequest()); err == nil {
		t.Fatalf("expected profile write error")
	}
	if len(fa.deleted) != 1 || fa.deleted[0] != "taken" {
		t.Fatalf("auth user not rolled back: %v", fa.deleted)
	}
}

func TestAuthFailure(t *testing.T) {
	svc := newService(memoryRepo.NewStore(), &fakeAuth{createErr: errors.New("quota exceeded")})
	if _, err := svc.CreateUser(context.Background(), "admin1", validRequest()); err == nil {
		t.Fatalf("expected auth error")
	}
}
