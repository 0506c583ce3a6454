package echoapi

import (
	"net/http"
	"testing"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/wakala/core/employee"
	"github.com/trezcool/wakala/core/session"
)

func sessionResponseData(t *testing.T, sess session.UserSession) []byte {
	t.Helper()
	return marchallObj(t, SessionResponse{
		Session:  sess,
		Sections: session.VisibleSections(sess, session.Sections),
		Landing:  session.LandingFor(sess, session.Sections),
	})
}

func emptySession(userID, email string) session.UserSession {
	return session.UserSession{
		UserID:           userID,
		Email:            email,
		PlanPermissions:  employee.BoolMap{},
		NavPermissions:   employee.BoolMap{},
		VaultPermissions: employee.PermMap{},
	}
}

func Test_sessionApi_retrieve(t *testing.T) {
	env := setup(t)

	admin := env.createUser(t, "Boss", "boss@agency.cd", "s3cr3t", true)
	unlinked := env.createUser(t, "New Hire", "new@agency.cd", "s3cr3t", true)
	inactive := env.createUser(t, "Gone", "gone@agency.cd", "s3cr3t", false)
	staff := env.createUser(t, "Awe", "awe@agency.cd", "s3cr3t", true)

	emp := env.createEmployee(t, employee.Employee{
		Name:           "Awe",
		Email:          "awe@agency.cd",
		UserID:         null.StringFrom(staff.ID),
		Role:           "Sales Manager",
		CanViewPlans:   true,
		NavPermissions: employee.BoolMap{session.SectionTasks: true, session.SectionClients: true},
		VaultPermissions: employee.PermMap{
			"cat1": employee.VaultPermView,
		},
	})

	adminSess := emptySession(admin.ID, admin.Email)
	adminSess.IsAdmin = true

	staffSess := emptySession(staff.ID, staff.Email)
	staffSess.EmployeeID = emp.ID
	staffSess.IsSalesManager = true
	staffSess.CanViewPlans = true
	staffSess.NavPermissions = emp.NavPermissions
	staffSess.VaultPermissions = emp.VaultPermissions

	tests := []httpTest{
		{
			name:     "Auth required",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "Deactivated account is rejected",
			token:    env.getToken(t, inactive),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{
			name:     "Admin override",
			token:    env.getToken(t, admin),
			wantCode: http.StatusOK,
			wantData: sessionResponseData(t, adminSess),
		},
		{
			name:     "Unlinked identity gets a degraded session",
			token:    env.getToken(t, unlinked),
			wantCode: http.StatusOK,
			wantData: sessionResponseData(t, emptySession(unlinked.ID, unlinked.Email)),
		},
		{
			name:     "Linked employee capabilities",
			token:    env.getToken(t, staff),
			wantCode: http.StatusOK,
			wantData: sessionResponseData(t, staffSess),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/session", tt.token)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
