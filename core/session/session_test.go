package session_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/wakala/core"
	"github.com/trezcool/wakala/core/employee"
	"github.com/trezcool/wakala/core/session"
	"github.com/trezcool/wakala/core/user"
	dummydb "github.com/trezcool/wakala/storage/database/dummy"
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func testConf() *core.Config {
	return &core.Config{AdminEmail: "boss@agency.cd"}
}

func setup(t *testing.T) (*session.Resolver, employee.Repository) {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	repo := dummydb.NewEmployeeRepository(db)
	return session.NewResolver(repo, nopLogger{}, testConf()), repo
}

func createEmployee(t *testing.T, repo employee.Repository, emp employee.Employee) employee.Employee {
	t.Helper()

	emp, err := repo.CreateEmployee(context.Background(), emp)
	if err != nil {
		t.Fatalf("CreateEmployee() failed, %v", err)
	}
	return emp
}

func TestResolve_adminOverride(t *testing.T) {
	resolver, _ := setup(t)

	// no employee record at all; the configured email still gets full access
	sess, err := resolver.Resolve(context.Background(), user.User{ID: "u1", Email: "Boss@Agency.cd"})
	if err != nil {
		t.Fatalf("Resolve() failed, %v", err)
	}

	assert.True(t, sess.IsAdmin)
	assert.Empty(t, sess.EmployeeID)
	assert.True(t, sess.HasNav(session.SectionVault))
	assert.True(t, sess.CanEditVault("any-category"))
}

func TestResolve_unlinkedIdentity(t *testing.T) {
	resolver, _ := setup(t)

	sess, err := resolver.Resolve(context.Background(), user.User{ID: "u1", Email: "new@agency.cd"})
	if err != nil {
		t.Fatalf("Resolve() failed, %v", err)
	}

	assert.False(t, sess.IsAdmin)
	assert.Empty(t, sess.EmployeeID)
	assert.False(t, sess.HasNav(session.SectionTasks))
	// maps are always usable, never nil
	assert.NotNil(t, sess.NavPermissions)
	assert.NotNil(t, sess.PlanPermissions)
	assert.NotNil(t, sess.VaultPermissions)
}

func TestResolve_foundByLink(t *testing.T) {
	resolver, repo := setup(t)

	emp := createEmployee(t, repo, employee.Employee{
		ID:             "e1",
		Name:           "Awe",
		Email:          "awe@agency.cd",
		UserID:         null.StringFrom("u1"),
		Role:           "Designer",
		NavPermissions: employee.BoolMap{session.SectionTasks: true},
	})

	// the stored email no longer matters once linked
	sess, err := resolver.Resolve(context.Background(), user.User{ID: "u1", Email: "renamed@agency.cd"})
	if err != nil {
		t.Fatalf("Resolve() failed, %v", err)
	}

	assert.Equal(t, emp.ID, sess.EmployeeID)
	assert.True(t, sess.HasNav(session.SectionTasks))
	assert.False(t, sess.HasNav(session.SectionVault))
}

func TestResolve_autoLinkOnEmailMatch(t *testing.T) {
	resolver, repo := setup(t)
	ctx := context.Background()

	emp := createEmployee(t, repo, employee.Employee{ID: "e1", Name: "Awe", Email: "awe@agency.cd"})

	sess, err := resolver.Resolve(ctx, user.User{ID: "u1", Email: "Awe@Agency.CD"})
	if err != nil {
		t.Fatalf("Resolve() failed, %v", err)
	}
	assert.Equal(t, emp.ID, sess.EmployeeID)

	// the link was persisted
	linked, err := repo.GetEmployee(ctx, employee.GetFilter{UserID: "u1"})
	if err != nil {
		t.Fatalf("GetEmployee() failed, %v", err)
	}
	assert.Equal(t, emp.ID, linked.ID)

	// resolving again is a no-op on the link
	sess2, err := resolver.Resolve(ctx, user.User{ID: "u1", Email: "awe@agency.cd"})
	if err != nil {
		t.Fatalf("Resolve() failed, %v", err)
	}
	assert.Equal(t, sess.EmployeeID, sess2.EmployeeID)
}

func TestResolve_emailMatchOwnedByOtherIdentity(t *testing.T) {
	resolver, repo := setup(t)
	ctx := context.Background()

	createEmployee(t, repo, employee.Employee{
		ID:     "e1",
		Name:   "Awe",
		Email:  "awe@agency.cd",
		UserID: null.StringFrom("someone-else"),
	})

	// same email, different identity: never steal the link
	sess, err := resolver.Resolve(ctx, user.User{ID: "u1", Email: "awe@agency.cd"})
	if err != nil {
		t.Fatalf("Resolve() failed, %v", err)
	}
	assert.Empty(t, sess.EmployeeID)

	emp, err := repo.GetEmployee(ctx, employee.GetFilter{ID: "e1"})
	if err != nil {
		t.Fatalf("GetEmployee() failed, %v", err)
	}
	assert.Equal(t, "someone-else", emp.UserID.String)
}

func TestResolve_salesManagerLabel(t *testing.T) {
	resolver, repo := setup(t)

	tests := []struct {
		role string
		want bool
	}{
		{"Sales Manager", true},
		{"salesmanager", true},
		{"SALES MANAGER", true},
		{" sales  manager ", true}, // whitespace does not matter
		{"Sales Management", false},
		{"Sales", false},
		{"Manager", false},
		{"", false},
	}
	for i, tt := range tests {
		emp := createEmployee(t, repo, employee.Employee{
			ID:    "e" + string(rune('a'+i)),
			Email: string(rune('a'+i)) + "@agency.cd",
			Role:  tt.role,
		})
		sess, err := resolver.Resolve(context.Background(), user.User{ID: "u" + emp.ID, Email: emp.Email})
		if err != nil {
			t.Fatalf("Resolve() failed, %v", err)
		}
		assert.Equal(t, tt.want, sess.IsSalesManager, "role %q", tt.role)
	}
}

func TestResolve_linkIsWrittenOnce(t *testing.T) {
	db, _ := dummydb.Open()
	repo := &countingLinkRepo{Repository: dummydb.NewEmployeeRepository(db)}
	resolver := session.NewResolver(repo, nopLogger{}, testConf())
	ctx := context.Background()

	createEmployee(t, repo, employee.Employee{ID: "e1", Email: "awe@agency.cd"})

	usr := user.User{ID: "u1", Email: "awe@agency.cd"}
	if _, err := resolver.Resolve(ctx, usr); err != nil {
		t.Fatalf("Resolve() failed, %v", err)
	}
	if _, err := resolver.Resolve(ctx, usr); err != nil {
		t.Fatalf("Resolve() failed, %v", err)
	}

	// second resolution goes through the identity link, no second write
	assert.Equal(t, 1, repo.linkWrites)
}

func TestUserSession_vaultPermissions(t *testing.T) {
	sess := session.UserSession{
		EmployeeID: "e1",
		VaultPermissions: employee.PermMap{
			"cat-view": employee.VaultPermView,
			"cat-edit": employee.VaultPermEdit,
		},
	}

	assert.True(t, sess.CanViewVault("cat-view"))
	assert.False(t, sess.CanEditVault("cat-view"))
	assert.True(t, sess.CanViewVault("cat-edit"))
	assert.True(t, sess.CanEditVault("cat-edit"))
	assert.False(t, sess.CanViewVault("cat-other"))
	assert.False(t, sess.CanEditVault("cat-other"))

	admin := session.UserSession{IsAdmin: true}
	assert.True(t, admin.CanViewVault("cat-other"))
	assert.True(t, admin.CanEditVault("cat-other"))
}

// instrumented repos

type countingLinkRepo struct {
	employee.Repository
	linkWrites int
}

func (r *countingLinkRepo) SetEmployeeUser(ctx context.Context, employeeID, userID string) error {
	r.linkWrites++
	return r.Repository.SetEmployeeUser(ctx, employeeID, userID)
}

type failingLinkRepo struct {
	employee.Repository
}

func (failingLinkRepo) SetEmployeeUser(context.Context, string, string) error {
	return errors.New("connection reset")
}

func TestResolve_linkWriteFailureIsSwallowed(t *testing.T) {
	db, _ := dummydb.Open()
	repo := failingLinkRepo{dummydb.NewEmployeeRepository(db)}
	resolver := session.NewResolver(repo, nopLogger{}, testConf())
	ctx := context.Background()

	emp := createEmployee(t, repo, employee.Employee{
		ID:             "e1",
		Email:          "awe@agency.cd",
		NavPermissions: employee.BoolMap{session.SectionTasks: true},
	})

	// the session is fully usable despite the failed link write
	sess, err := resolver.Resolve(ctx, user.User{ID: "u1", Email: "awe@agency.cd"})
	if err != nil {
		t.Fatalf("Resolve() failed, %v", err)
	}
	assert.Equal(t, emp.ID, sess.EmployeeID)
	assert.True(t, sess.HasNav(session.SectionTasks))
}

type failingGetRepo struct {
	employee.Repository
}

func (failingGetRepo) GetEmployee(context.Context, employee.GetFilter) (employee.Employee, error) {
	return employee.Employee{}, errors.New("connection reset")
}

func TestResolve_storeFailurePropagates(t *testing.T) {
	db, _ := dummydb.Open()
	resolver := session.NewResolver(failingGetRepo{dummydb.NewEmployeeRepository(db)}, nopLogger{}, testConf())

	_, err := resolver.Resolve(context.Background(), user.User{ID: "u1", Email: "awe@agency.cd"})
	assert.Error(t, err)
}
