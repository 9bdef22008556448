package utils

import (
	"testing"

	"github.com/sinkedin/sinkedin/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTempDB(t *testing.T) {
	_, dbName := CreateTempDB(t)

	exists, err := IsDatabaseExist(dbName)
	assert.Nil(t, err)
	assert.True(t, exists)
}

func TestIsDatabaseExist(t *testing.T) {
	// Connectivity probe first so this test also skips without postgres.
	_, _ = CreateTempDB(t)

	exists, err := IsDatabaseExist("postgres")
	assert.Nil(t, err)
	assert.True(t, exists)

	exists, err = IsDatabaseExist("does_not_exist")
	assert.Nil(t, err)
	assert.False(t, exists)
}

func TestMigrationCreatesLikeConstraint(t *testing.T) {
	db, _ := CreateTempDB(t)

	// The toggle path depends on the unique pair index existing.
	var count int64
	res := db.Raw(
		"SELECT count(*) FROM pg_indexes WHERE indexname = 'idx_story_likes_story_user'",
	).Scan(&count)
	require.NoError(t, res.Error)
	require.EqualValues(t, 1, count)
}

// Likes and comments must not be insertable against rows that don't exist,
// so every belongs-to relation has to come out of migration as a real
// foreign key.
func TestMigrationCreatesForeignKeys(t *testing.T) {
	db, _ := CreateTempDB(t)
	migrator := db.Migrator()

	require.True(t, migrator.HasConstraint(&model.Story{}, "Author"))
	require.True(t, migrator.HasConstraint(&model.Comment{}, "Story"))
	require.True(t, migrator.HasConstraint(&model.Comment{}, "User"))
	require.True(t, migrator.HasConstraint(&model.StoryLike{}, "Story"))
	require.True(t, migrator.HasConstraint(&model.StoryLike{}, "User"))
}
