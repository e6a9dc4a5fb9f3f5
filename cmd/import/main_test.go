package main

import (
	"testing"

	"github.com/iman-school/caseload/model"
	"github.com/stretchr/testify/assert"
)

func TestMergeStudentsKeepsExistingIDs(t *testing.T) {
	existing := []model.Student{{ID: "a", PersonalInfo: model.PersonalInfo{FullName: "old"}}}
	imported := []model.Student{
		{ID: "a", PersonalInfo: model.PersonalInfo{FullName: "new"}},
		{ID: "b"},
	}

	merged := mergeStudents(existing, imported)

	assert.Len(t, merged, 2)
	assert.Equal(t, "old", merged[0].PersonalInfo.FullName)
	assert.Equal(t, "b", merged[1].ID)
}
