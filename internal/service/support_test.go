package service

import (
	"strings"
	"testing"
	"time"

	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/curriculum"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/model"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/repository"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	e := newEnv(t)
	store := &StorageService{
		Provider: &LocalStorageProvider{Root: t.TempDir()},
		Now:      func() time.Time { return e.now },
	}

	ref, err := store.Store(e.ctx, []byte("hello"), "Essay.TXT")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "2025/01/"), ref)
	assert.True(t, strings.HasSuffix(ref, ".txt"), ref)

	data, err := store.Resolve(e.ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	require.NoError(t, store.Delete(e.ctx, ref))
	_, err = store.Resolve(e.ctx, ref)
	assert.ErrorIs(t, err, util.ErrNotFound)

	for _, bad := range []string{"../etc/passwd", "2025/../../x", ""} {
		_, err = store.Resolve(e.ctx, bad)
		assert.ErrorIs(t, err, util.ErrNotFound, bad)
	}
}

func TestNotificationService(t *testing.T) {
	e := newEnv(t)
	s1 := e.student("S1")
	e.student("S2")
	svc := NewNotificationService(e.users, repository.NewNotificationRepository(e.db), nil)

	require.NoError(t, svc.Notify(e.ctx, s1.ID, "Assignment graded", "18/20"))
	require.NoError(t, svc.Notify(e.ctx, s1.ID, "Assignment auto-graded", "0/20"))

	list, err := svc.ListForUser(e.ctx, "S1", 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.False(t, list[0].IsRead)

	limited, err := svc.ListForUser(e.ctx, "S1", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	assert.ErrorIs(t, svc.MarkRead(e.ctx, "S2", list[0].ID), util.ErrNotFound, "not the recipient")
	require.NoError(t, svc.MarkRead(e.ctx, "S1", list[0].ID))

	var stored model.Notification
	require.NoError(t, e.db.First(&stored, list[0].ID).Error)
	assert.True(t, stored.IsRead)

	assert.Equal(t, "notifications:S1", Channel("S1"))
}

func TestCurriculumTeacherSubjects(t *testing.T) {
	e := newEnv(t)
	e.teacher("T1")
	e.user("A1", model.Admin, "")
	e.student("S1")
	svc := NewCurriculumService(e.users, curriculum.Default())

	res, err := svc.TeacherSubjects(e.ctx, "T1")
	require.NoError(t, err)
	assert.Contains(t, res.MatchedSubjects, "Aqaid")
	assert.NotContains(t, res.MatchedSubjects, "Mantiq")

	res, err = svc.TeacherSubjects(e.ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, res.AllSubjects, res.MatchedSubjects)

	_, err = svc.TeacherSubjects(e.ctx, "S1")
	assert.ErrorIs(t, err, util.ErrNotFound)
}
