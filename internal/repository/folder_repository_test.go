package repository

import (
	"Drive/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFolderRepository_CreateAssignsID(t *testing.T) {
	repo := NewFolderRepository(setupTestDB(t))

	folder := newFolder(t, repo, models.NamespacePrivate, "Invoices")

	assert.NotEmpty(t, folder.ID)
	assert.False(t, folder.ToDelete)
	assert.False(t, folder.CreatedAt.IsZero())
}

func TestFolderRepository_FindByID(t *testing.T) {
	repo := NewFolderRepository(setupTestDB(t))
	folder := newFolder(t, repo, models.NamespacePrivate, "FindByID")

	found, err := repo.FindByID(folder.ID)

	assert.NoError(t, err)
	assert.Equal(t, folder.ID, found.ID)
	assert.Equal(t, "FindByID", found.Name)

	_, err = repo.FindByID("missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFolderRepository_FindLiveByNameAndParent(t *testing.T) {
	repo := NewFolderRepository(setupTestDB(t))
	folder := newFolder(t, repo, models.NamespacePrivate, "Invoices")
	newFolder(t, repo, models.NamespacePublic, "Receipts")

	found, err := repo.FindLiveByNameAndParent("Invoices", models.NamespacePrivate)
	assert.NoError(t, err)
	if assert.NotNil(t, found) {
		assert.Equal(t, folder.ID, found.ID)
	}

	found, err = repo.FindLiveByNameAndParent("Invoices", models.NamespacePublic)
	assert.NoError(t, err)
	assert.Nil(t, found)

	_, err = repo.MarkToDelete([]string{folder.ID})
	assert.NoError(t, err)
	found, err = repo.FindLiveByNameAndParent("Invoices", models.NamespacePrivate)
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestFolderRepository_FindLiveChildrenSkipsMarked(t *testing.T) {
	repo := NewFolderRepository(setupTestDB(t))
	parent := newFolder(t, repo, models.NamespacePrivate, "Parent")
	newFolder(t, repo, parent.ID, "b")
	gone := newFolder(t, repo, parent.ID, "c")
	newFolder(t, repo, parent.ID, "a")

	_, err := repo.MarkToDelete([]string{gone.ID})
	assert.NoError(t, err)

	children, err := repo.FindLiveChildren(parent.ID)
	assert.NoError(t, err)
	if assert.Len(t, children, 2) {
		assert.Equal(t, "a", children[0].Name)
		assert.Equal(t, "b", children[1].Name)
	}
}

func TestFolderRepository_FindChildIDs(t *testing.T) {
	repo := NewFolderRepository(setupTestDB(t))
	first := newFolder(t, repo, models.NamespacePrivate, "first")
	second := newFolder(t, repo, models.NamespacePrivate, "second")
	a := newFolder(t, repo, first.ID, "a")
	b := newFolder(t, repo, second.ID, "b")
	newFolder(t, repo, a.ID, "nested")

	ids, err := repo.FindChildIDs([]string{first.ID, second.ID})

	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, ids)

	ids, err = repo.FindChildIDs(nil)
	assert.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFolderRepository_UpdateParentAndName(t *testing.T) {
	repo := NewFolderRepository(setupTestDB(t))
	target := newFolder(t, repo, models.NamespacePrivate, "target")
	moved := newFolder(t, repo, models.NamespacePrivate, "moved")

	affected, err := repo.UpdateParent([]string{moved.ID, "missing"}, target.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.UpdateName(moved.ID, "renamed")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	found, err := repo.FindByID(moved.ID)
	assert.NoError(t, err)
	assert.Equal(t, target.ID, found.Parent)
	assert.Equal(t, "renamed", found.Name)

	affected, err = repo.UpdateName("missing", "x")
	assert.NoError(t, err)
	assert.Zero(t, affected)
}

func TestFolderRepository_HardDeleteOnlyRemovesMarkedRows(t *testing.T) {
	repo := NewFolderRepository(setupTestDB(t))
	marked := newFolder(t, repo, models.NamespacePrivate, "marked")
	live := newFolder(t, repo, models.NamespacePrivate, "live")

	_, err := repo.MarkToDelete([]string{marked.ID})
	assert.NoError(t, err)

	deleted, err := repo.FindDeleted()
	assert.NoError(t, err)
	assert.Len(t, deleted, 1)

	affected, err := repo.HardDeleteByIDs([]string{marked.ID, live.ID})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	all, err := repo.FindAll()
	assert.NoError(t, err)
	if assert.Len(t, all, 1) {
		assert.Equal(t, live.ID, all[0].ID)
	}
}

func TestFolderRepository_BatchOperationsAboveParameterLimit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFolderRepository(db)
	const count = 33000
	folders := make([]models.Folder, count)
	for i := range folders {
		folders[i] = models.Folder{Entry: models.Entry{Parent: "bulk-parent", Name: "child", CreatedBy: "user-1"}}
	}
	require.NoError(t, db.CreateInBatches(&folders, 1000).Error)
	ids := make([]string, count)
	for i := range folders {
		ids[i] = folders[i].ID
	}

	children, err := repo.FindChildIDs([]string{"bulk-parent"})
	require.NoError(t, err)
	assert.Len(t, children, count)

	children, err = repo.FindChildIDs(ids)
	require.NoError(t, err)
	assert.Empty(t, children)

	moved, err := repo.UpdateParent(ids, models.NamespacePrivate)
	require.NoError(t, err)
	assert.Equal(t, int64(count), moved)

	marked, err := repo.MarkToDelete(ids)
	require.NoError(t, err)
	assert.Equal(t, int64(count), marked)

	deleted, err := repo.HardDeleteByIDs(ids)
	require.NoError(t, err)
	assert.Equal(t, int64(count), deleted)

	var remaining int64
	require.NoError(t, db.Model(&models.Folder{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
}
