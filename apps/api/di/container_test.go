package di

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/itsite/apps/api/echo"
	"github.com/trezcool/itsite/core"
	"github.com/trezcool/itsite/core/submission"
	"github.com/trezcool/itsite/storage/database"
)

func TestNew(t *testing.T) {
	tests := []struct {
		engine string
		wantDB bool
	}{
		{engine: database.Memory, wantDB: false},
		{engine: database.SQLite3, wantDB: true},
	}
	for _, tt := range tests {
		t.Run(tt.engine, func(t *testing.T) {
			newConfig := func() *core.Config {
				conf := core.NewTestConfig()
				conf.Database.Engine = tt.engine
				conf.Storage.LocalDir = t.TempDir()
				return conf
			}
			c, err := New(newConfig)
			require.NoError(t, err)

			err = c.Invoke(func(db *sqlx.DB, server *echoapi.Server, subsSvc submission.ServiceInterface) {
				assert.Equal(t, tt.wantDB, db != nil)
				assert.NotNil(t, server)
				assert.NotNil(t, subsSvc)
				if db != nil {
					_ = db.Close()
				}
				_ = server.Close()
			})
			assert.NoError(t, err)
		})
	}
}

func TestNew_unsupportedEngine(t *testing.T) {
	c, err := New(func() *core.Config {
		conf := core.NewTestConfig()
		conf.Database.Engine = "oracle"
		return conf
	})
	require.NoError(t, err)

	err = c.Invoke(func(*echoapi.Server) {})
	assert.Error(t, err)
}
