package policy

// DefaultDefinitions returns the builtin policy table the demo server
// registers at startup. Every requirement variant appears at least once:
// role sets, a security level floor, department and region allow-lists,
// single permissions and a composite.
func DefaultDefinitions() []Definition {
	return []Definition{
		{
			Name: "AdminOnly",
			Requirements: []RequirementSpec{
				{Type: "role", Roles: []string{"Admin"}},
			},
		},
		{
			Name: "ManagerOrAdmin",
			Requirements: []RequirementSpec{
				{Type: "role", Roles: []string{"Admin", "Manager"}},
			},
		},
		{
			Name: "CatalogReader",
			Requirements: []RequirementSpec{
				{Type: "permission", Permission: "catalog.read"},
			},
		},
		{
			Name: "CatalogEditor",
			Requirements: []RequirementSpec{
				{Type: "role", Roles: []string{"Admin", "Manager"}},
				{Type: "permission", Permission: "catalog.write"},
			},
		},
		{
			Name: "ITDepartment",
			Requirements: []RequirementSpec{
				{Type: "department", Departments: []string{"IT"}},
			},
		},
		{
			Name: "NorthAmericaSales",
			Requirements: []RequirementSpec{
				{Type: "department", Departments: []string{"Sales"}},
				{Type: "region", Regions: []string{"North America"}},
			},
		},
		{
			Name: "SeniorAnalytics",
			Requirements: []RequirementSpec{
				{Type: "composite", Minimum: 3,
					Roles:       []string{"Admin", "Analyst", "Manager"},
					Permissions: []string{"reports.read"}},
			},
		},
		{
			Name: "SystemAdministrator",
			Requirements: []RequirementSpec{
				{Type: "security_level", Minimum: 4},
				{Type: "role", Roles: []string{"Admin"}},
				{Type: "permission", Permission: "system.admin"},
			},
		},
	}
}

// DefaultRegistry builds the builtin policy table.
func DefaultRegistry() (*Registry, error) {
	return FromDefinitions(DefaultDefinitions())
}
