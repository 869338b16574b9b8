package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appauth "github.com/canberk/labdrop/internal/app/auth"
	"github.com/canberk/labdrop/internal/app/models"
	"github.com/canberk/labdrop/internal/app/models/dto"
	"github.com/canberk/labdrop/internal/pkg/apperrors"
	"github.com/canberk/labdrop/internal/pkg/auth"
	"github.com/canberk/labdrop/internal/pkg/captcha"
	"github.com/canberk/labdrop/internal/pkg/workspace"
)

type authFixture struct {
	students   *fakeStudentStore
	sections   *fakeSectionStore
	sessions   *fakeSessionStore
	workspaces *failingWorkspaces
	jwt        *auth.JWTService
	svc        AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	manager, err := workspace.NewManager(t.TempDir())
	require.NoError(t, err)

	f := &authFixture{
		students:   newFakeStudentStore(),
		sections:   newFakeSectionStore("CS101"),
		sessions:   newFakeSessionStore(),
		workspaces: &failingWorkspaces{Manager: manager},
		jwt: auth.NewJWTService(auth.JWTConfig{
			SecretKey: "test-secret",
			TokenExp:  time.Hour,
		}),
	}
	f.svc = NewAuthService(f.students, f.sections, f.sessions, f.workspaces, captcha.DisabledVerifier{}, f.jwt, zerolog.Nop())
	return f
}

func (f *authFixture) addStudent(t *testing.T, identifier, password, section string) {
	t.Helper()
	hashed, err := auth.HashPassword(password)
	require.NoError(t, err)
	require.NoError(t, f.students.Create(context.Background(), &models.Student{
		Identifier:  identifier,
		Password:    hashed,
		SectionName: section,
	}))
}

func registerReq(identifier string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Identifier:  identifier,
		Password:    "hunter2",
		Password2:   "hunter2",
		SectionName: "CS101",
	}
}

func TestRegister_Success(t *testing.T) {
	f := newAuthFixture(t)

	resp, err := f.svc.Register(context.Background(), registerReq("alice"), "")
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.Identifier)
	assert.False(t, resp.Admin)

	// Record, workspace tree and session binding all exist.
	stored, err := f.students.GetByIdentifier(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(stored.Password, "hunter2"))
	assert.True(t, f.workspaces.Exists("alice"))
	for _, slot := range workspace.Slots {
		_, err := os.Stat(filepath.Join(f.workspaces.StudentDir("alice"), slot))
		require.NoError(t, err)
	}
	assert.Equal(t, 1, f.sessions.countFor("alice"))
}

func TestRegister_PasswordMismatch(t *testing.T) {
	f := newAuthFixture(t)

	req := registerReq("alice")
	req.Password2 = "other"

	_, err := f.svc.Register(context.Background(), req, "")
	require.ErrorIs(t, err, apperrors.ErrPasswordMismatch)

	// Nothing was created.
	assert.Empty(t, f.students.students)
	assert.False(t, f.workspaces.Exists("alice"))
	assert.Empty(t, f.sessions.sessions)
}

func TestRegister_InvalidIdentifier(t *testing.T) {
	f := newAuthFixture(t)

	for _, id := range []string{"", "Alice", "a b", "a/b", "../x"} {
		req := registerReq(id)
		_, err := f.svc.Register(context.Background(), req, "")
		require.ErrorIs(t, err, apperrors.ErrInvalidIdentifier, "identifier %q", id)
	}
}

func TestRegister_UnknownSection(t *testing.T) {
	f := newAuthFixture(t)

	req := registerReq("alice")
	req.SectionName = "NOPE"

	_, err := f.svc.Register(context.Background(), req, "")
	require.ErrorIs(t, err, apperrors.ErrSectionNotFound)
}

func TestRegister_IdentifierTaken(t *testing.T) {
	f := newAuthFixture(t)
	f.addStudent(t, "alice", "pw", "CS101")

	_, err := f.svc.Register(context.Background(), registerReq("alice"), "")
	require.ErrorIs(t, err, apperrors.ErrIdentifierTaken)
}

func TestRegister_IdentifierTakenOnDisk(t *testing.T) {
	f := newAuthFixture(t)
	require.NoError(t, f.workspaces.Manager.Create("alice"))

	_, err := f.svc.Register(context.Background(), registerReq("alice"), "")
	require.ErrorIs(t, err, apperrors.ErrIdentifierTaken)
}

func TestRegister_CaptchaFailure(t *testing.T) {
	f := newAuthFixture(t)
	manager, err := workspace.NewManager(t.TempDir())
	require.NoError(t, err)

	rejecting := captcha.NewHTTPVerifier(captcha.Config{SecretKey: "sk", VerifyURL: "http://127.0.0.1:0"}, zerolog.Nop())
	svc := NewAuthService(f.students, f.sections, f.sessions, &failingWorkspaces{Manager: manager}, rejecting, f.jwt, zerolog.Nop())

	_, err = svc.Register(context.Background(), registerReq("alice"), "")
	require.ErrorIs(t, err, apperrors.ErrCaptchaFailed)
}

func TestRegister_WorkspaceFailureRollsBackRecord(t *testing.T) {
	f := newAuthFixture(t)
	f.workspaces.createErr = errBoom

	_, err := f.svc.Register(context.Background(), registerReq("alice"), "")
	require.ErrorIs(t, err, apperrors.ErrDatabase)

	// The compensating delete removed the record again.
	assert.Empty(t, f.students.students)
	assert.Empty(t, f.sessions.sessions)
}

func TestLogin_Success(t *testing.T) {
	f := newAuthFixture(t)
	f.addStudent(t, "alice", "hunter2", "CS101")

	resp, err := f.svc.Login(context.Background(), dto.LoginRequest{Identifier: "alice", Password: "hunter2"}, "")
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Identifier)
	assert.Equal(t, 1, f.sessions.countFor("alice"))

	claims, err := f.jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	_, err = f.sessions.Get(context.Background(), claims.SessionID)
	require.NoError(t, err)
}

func TestLogin_AdminFlag(t *testing.T) {
	f := newAuthFixture(t)
	f.addStudent(t, models.AdminIdentifier, "rootpw", "DEFAULT")

	resp, err := f.svc.Login(context.Background(), dto.LoginRequest{Identifier: "admin", Password: "rootpw"}, "")
	require.NoError(t, err)
	assert.True(t, resp.Admin)
}

func TestLogin_GenericFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.addStudent(t, "alice", "hunter2", "CS101")

	// Unknown identifier and wrong password fail identically.
	_, errUnknown := f.svc.Login(context.Background(), dto.LoginRequest{Identifier: "ghost", Password: "hunter2"}, "")
	require.ErrorIs(t, errUnknown, apperrors.ErrInvalidCredentials)

	_, errWrongPw := f.svc.Login(context.Background(), dto.LoginRequest{Identifier: "alice", Password: "wrong"}, "")
	require.ErrorIs(t, errWrongPw, apperrors.ErrInvalidCredentials)

	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
	assert.Empty(t, f.sessions.sessions)
}

func TestLogout_RemovesSessionBinding(t *testing.T) {
	f := newAuthFixture(t)
	f.addStudent(t, "alice", "hunter2", "CS101")

	resp, err := f.svc.Login(context.Background(), dto.LoginRequest{Identifier: "alice", Password: "hunter2"}, "")
	require.NoError(t, err)

	claims, err := f.jwt.ValidateToken(resp.Token)
	require.NoError(t, err)

	caller := appauth.Identity{Identifier: "alice", SessionID: claims.SessionID}
	require.NoError(t, f.svc.Logout(context.Background(), caller))
	assert.Equal(t, 0, f.sessions.countFor("alice"))

	// A second logout with the same dead session is tolerated.
	require.NoError(t, f.svc.Logout(context.Background(), caller))
}

func TestResetPassword_Self(t *testing.T) {
	f := newAuthFixture(t)
	f.addStudent(t, "alice", "old", "CS101")

	caller := appauth.Identity{Identifier: "alice"}
	err := f.svc.ResetPassword(context.Background(), caller, dto.PasswordResetRequest{Password: "new", Password2: "new"})
	require.NoError(t, err)

	stored, err := f.students.GetByIdentifier(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(stored.Password, "new"))
}

func TestResetPassword_Mismatch(t *testing.T) {
	f := newAuthFixture(t)
	f.addStudent(t, "alice", "old", "CS101")

	caller := appauth.Identity{Identifier: "alice"}
	err := f.svc.ResetPassword(context.Background(), caller, dto.PasswordResetRequest{Password: "new", Password2: "other"})
	require.ErrorIs(t, err, apperrors.ErrPasswordMismatch)
}

func TestResetPassword_AdminForOther(t *testing.T) {
	f := newAuthFixture(t)
	f.addStudent(t, "alice", "old", "CS101")

	caller := appauth.Identity{Identifier: models.AdminIdentifier, Admin: true}
	err := f.svc.ResetPassword(context.Background(), caller, dto.PasswordResetRequest{Password: "new", Password2: "new", For: "alice"})
	require.NoError(t, err)

	stored, err := f.students.GetByIdentifier(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(stored.Password, "new"))
}

func TestResetPassword_NonAdminCannotTargetOthers(t *testing.T) {
	f := newAuthFixture(t)
	f.addStudent(t, "alice", "aliceold", "CS101")
	f.addStudent(t, "bob", "bobold", "CS101")

	caller := appauth.Identity{Identifier: "bob"}
	err := f.svc.ResetPassword(context.Background(), caller, dto.PasswordResetRequest{Password: "new", Password2: "new", For: "alice"})
	require.NoError(t, err)

	// The For field was ignored: bob changed his own password only.
	alice, err := f.students.GetByIdentifier(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(alice.Password, "aliceold"))

	bob, err := f.students.GetByIdentifier(context.Background(), "bob")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(bob.Password, "new"))
}

func TestResetPassword_AdminUnknownTarget(t *testing.T) {
	f := newAuthFixture(t)

	caller := appauth.Identity{Identifier: models.AdminIdentifier, Admin: true}
	err := f.svc.ResetPassword(context.Background(), caller, dto.PasswordResetRequest{Password: "new", Password2: "new", For: "ghost"})
	require.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}
