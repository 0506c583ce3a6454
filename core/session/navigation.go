package session

// Section keys. These are the values stored in an employee's nav_permissions map.
const (
	SectionOverview  = "overview"
	SectionEmployees = "employees"
	SectionClients   = "clients"
	SectionCampaigns = "campaigns"
	SectionTasks     = "tasks"
	SectionDocuments = "documents"
	SectionPlans     = "plans"
	SectionVault     = "vault"
	SectionMyProfile = "my_profile"
)

// Section describes one navigable area of the application.
type Section struct {
	Key          string `json:"key"`
	Route        string `json:"route"`
	Label        string `json:"label"`
	AdminOnly    bool   `json:"admin_only"`
	EmployeeOnly bool   `json:"employee_only"`
}

// Sections is the static universe of sections, in display order.
// Immutable at runtime.
var Sections = []Section{
	{Key: SectionOverview, Route: "/overview", Label: "Overview", AdminOnly: true},
	{Key: SectionEmployees, Route: "/employees", Label: "Employees", AdminOnly: true},
	{Key: SectionClients, Route: "/clients", Label: "Clients"},
	{Key: SectionCampaigns, Route: "/campaigns", Label: "Campaigns"},
	{Key: SectionTasks, Route: "/tasks", Label: "Tasks"},
	{Key: SectionDocuments, Route: "/documents", Label: "Documents"},
	{Key: SectionPlans, Route: "/plans", Label: "Plans"},
	{Key: SectionVault, Route: "/vault", Label: "Vault"},
	{Key: SectionMyProfile, Route: "/me", Label: "My Profile", EmployeeOnly: true},
}

// VisibleSections computes the subset of sections the session may navigate
// to, preserving configured order. Admins see everything that is not
// employee-only; everyone else is checked against nav permissions with a
// missing key meaning denied.
func VisibleSections(sess UserSession, sections []Section) []Section {
	visible := make([]Section, 0, len(sections))
	for _, s := range sections {
		if sess.IsAdmin {
			if !s.EmployeeOnly {
				visible = append(visible, s)
			}
			continue
		}
		if !s.AdminOnly && sess.NavPermissions[s.Key] {
			visible = append(visible, s)
		}
	}
	return visible
}

// LandingKind distinguishes a navigable landing from the placeholder states
// the UI must render instead of a route.
type LandingKind int

const (
	// LandingRoute: Landing.Route holds the destination.
	LandingRoute LandingKind = iota
	// LandingUnlinked: authenticated identity with no employee record;
	// the UI shows a "contact your administrator" message.
	LandingUnlinked
	// LandingNoAccess: linked employee with no permitted section.
	LandingNoAccess
)

type Landing struct {
	Kind  LandingKind `json:"kind"`
	Route string      `json:"route,omitempty"`
}

// LandingFor computes the default landing for a session. Pure function of
// its inputs: identical session and section list always yield the same result.
func LandingFor(sess UserSession, sections []Section) Landing {
	if sess.IsAdmin {
		return Landing{Kind: LandingRoute, Route: "/overview"}
	}
	if sess.EmployeeID == "" {
		return Landing{Kind: LandingUnlinked}
	}
	if sess.NavPermissions[SectionMyProfile] {
		return Landing{Kind: LandingRoute, Route: "/employees/" + sess.EmployeeID}
	}
	for _, s := range sections {
		if s.AdminOnly || s.Key == SectionMyProfile {
			continue
		}
		if sess.NavPermissions[s.Key] {
			return Landing{Kind: LandingRoute, Route: s.Route}
		}
	}
	return Landing{Kind: LandingNoAccess}
}
