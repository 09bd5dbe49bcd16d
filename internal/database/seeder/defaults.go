package seeder

import "strings"

// Defaults returns the seeders run by init-database -seed. The admin seeder is
// only included when both credentials are set.
func Defaults(adminEmail, adminPassword string) []Seeder {
	out := []Seeder{
		DepartmentsSeeder{},
		JobsSeeder{},
	}
	if strings.TrimSpace(adminEmail) != "" && adminPassword != "" {
		out = append(out, AdminSeeder{Email: adminEmail, Password: adminPassword})
	}
	return out
}
