package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/wakala/core/employee"
)

func sectionKeys(sections []Section) []string {
	keys := make([]string, 0, len(sections))
	for _, s := range sections {
		keys = append(keys, s.Key)
	}
	return keys
}

func TestVisibleSections(t *testing.T) {
	tests := []struct {
		name string
		sess UserSession
		want []string
	}{
		{
			name: "admin sees everything but employee-only sections",
			sess: UserSession{IsAdmin: true},
			want: []string{
				SectionOverview, SectionEmployees, SectionClients, SectionCampaigns,
				SectionTasks, SectionDocuments, SectionPlans, SectionVault,
			},
		},
		{
			name: "deny by default",
			sess: UserSession{EmployeeID: "e1", NavPermissions: employee.BoolMap{}},
			want: []string{},
		},
		{
			name: "granted keys only, configured order preserved",
			sess: UserSession{EmployeeID: "e1", NavPermissions: employee.BoolMap{
				SectionVault:   true,
				SectionClients: true,
				SectionTasks:   true,
			}},
			want: []string{SectionClients, SectionTasks, SectionVault},
		},
		{
			name: "explicit false is denied",
			sess: UserSession{EmployeeID: "e1", NavPermissions: employee.BoolMap{
				SectionTasks:     true,
				SectionDocuments: false,
			}},
			want: []string{SectionTasks},
		},
		{
			name: "admin-only sections never granted through the map",
			sess: UserSession{EmployeeID: "e1", NavPermissions: employee.BoolMap{
				SectionOverview:  true,
				SectionEmployees: true,
				SectionTasks:     true,
			}},
			want: []string{SectionTasks},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VisibleSections(tt.sess, Sections)
			assert.Equal(t, tt.want, sectionKeys(got))
		})
	}
}

func TestLandingFor(t *testing.T) {
	tests := []struct {
		name string
		sess UserSession
		want Landing
	}{
		{
			name: "admin lands on overview",
			sess: UserSession{IsAdmin: true},
			want: Landing{Kind: LandingRoute, Route: "/overview"},
		},
		{
			name: "unlinked identity gets the placeholder",
			sess: UserSession{NavPermissions: employee.BoolMap{SectionTasks: true}},
			want: Landing{Kind: LandingUnlinked},
		},
		{
			name: "my profile wins over other sections",
			sess: UserSession{EmployeeID: "e1", NavPermissions: employee.BoolMap{
				SectionMyProfile: true,
				SectionClients:   true,
			}},
			want: Landing{Kind: LandingRoute, Route: "/employees/e1"},
		},
		{
			name: "first permitted section in configured order",
			sess: UserSession{EmployeeID: "e1", NavPermissions: employee.BoolMap{
				SectionVault:     true,
				SectionCampaigns: true,
			}},
			want: Landing{Kind: LandingRoute, Route: "/campaigns"},
		},
		{
			name: "linked employee with nothing permitted",
			sess: UserSession{EmployeeID: "e1", NavPermissions: employee.BoolMap{}},
			want: Landing{Kind: LandingNoAccess},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LandingFor(tt.sess, Sections))
			// pure: same inputs, same landing
			assert.Equal(t, tt.want, LandingFor(tt.sess, Sections))
		})
	}
}
