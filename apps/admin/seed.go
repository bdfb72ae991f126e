package main

import (
	"context"
	"fmt"

	"github.com/schoolhub/backend/core"
	"github.com/schoolhub/backend/core/user"
)

var demoUsers = []user.NewUser{
	{Name: "Admin User", Email: "admin@school.com", Password: "admin123", Role: user.RoleAdmin, Phone: "+1234567890", Address: "123 Admin St, School City"},
	{Name: "Teacher User", Email: "teacher@school.com", Password: "teacher123", Role: user.RoleTeacher, Phone: "+1234567891", Address: "456 Teacher Ave, School City"},
	{Name: "Student User", Email: "student@school.com", Password: "student123", Role: user.RoleStudent, Phone: "+1234567892", Address: "789 Student Rd, School City"},
	{Name: "Parent User", Email: "parent@school.com", Password: "parent123", Role: user.RoleParent, Phone: "+1234567893", Address: "321 Parent Ln, School City"},
}

// seed creates the demo users. Existing emails are skipped.
func (cli *commandLine) seed() error {
	ctx := context.Background()
	for _, nu := range demoUsers {
		if _, err := cli.usrSvc.Create(ctx, nu); err != nil {
			if core.IsConflict(err) {
				fmt.Printf("%s already exists, skipping\n", nu.Email)
				continue
			}
			return err
		}
		fmt.Printf("created %s (%s)\n", nu.Email, nu.Role)
	}
	return nil
}

func (cli *commandLine) createAdmin(name, email, pwd string) error {
	_, err := cli.usrSvc.Create(context.Background(), user.NewUser{
		Name:     name,
		Email:    email,
		Password: pwd,
		Role:     user.RoleAdmin,
	})
	return err
}
