package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRoleList(t *testing.T) {
	assert.Equal(t, []string{"Teacher", "Student"}, parseRoleList("Teacher,Student"))
	assert.Equal(t, []string{"Teacher", "Student"}, parseRoleList(" Teacher , ,Student, "))
	assert.Empty(t, parseRoleList(""))
	assert.Empty(t, parseRoleList(" , ,, "))
	assert.Equal(t, []string{"Night Shift Lead"}, parseRoleList(" Night Shift Lead "))
}

func TestPartitionRolesAgainstCatalog(t *testing.T) {
	added, duplicates := partitionRoles([]string{"Manager", "Teacher"}, []string{"Student", "teacher", "Janitor"})
	assert.Equal(t, []string{"Student", "Janitor"}, added)
	assert.Equal(t, []string{"teacher"}, duplicates)
}

func TestPartitionRolesDedupesWithinSubmission(t *testing.T) {
	added, duplicates := partitionRoles(nil, []string{"Admin", "admin", "STAFF"})
	assert.Equal(t, []string{"Admin", "STAFF"}, added)
	assert.Equal(t, []string{"admin"}, duplicates)
}

func TestPartitionRolesMessySubmission(t *testing.T) {
	added, duplicates := partitionRoles([]string{"Manager"}, parseRoleList(" Admin , admin, STAFF , "))
	assert.Equal(t, []string{"Admin", "STAFF"}, added)
	assert.Equal(t, []string{"admin"}, duplicates)
}

func TestPartitionRolesFirstCasingWins(t *testing.T) {
	added, _ := partitionRoles([]string{"Manager"}, []string{"Staff", "staff", "STAFF"})
	assert.Equal(t, []string{"Staff"}, added)
}
