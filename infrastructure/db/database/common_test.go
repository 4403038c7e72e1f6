package database_test

import (
	"fmt"
	"testing"

	"github.com/kaspanet/ghostdagd/infrastructure/db/database"
	"github.com/kaspanet/ghostdagd/infrastructure/db/database/ldb"
)

// testDatabaseCacheSizeMiB keeps the leveldb instances opened by tests small
const testDatabaseCacheSizeMiB = 8

type databaseOpener struct {
	name string
	open func(t *testing.T) database.Database
}

// databaseOpeners lists every Database implementation that the tests in
// this package run against.
var databaseOpeners = []databaseOpener{
	{
		name: "ldb",
		open: func(t *testing.T) database.Database {
			db, err := ldb.NewLevelDB(t.TempDir(), testDatabaseCacheSizeMiB)
			if err != nil {
				t.Fatalf("NewLevelDB: %s", err)
			}
			return db
		},
	},
}

func testForAllDatabaseTypes(t *testing.T, testName string,
	testFunc func(t *testing.T, db database.Database, testName string)) {

	for _, opener := range databaseOpeners {
		db := opener.open(t)
		testFunc(t, db, fmt.Sprintf("%s: %s", opener.name, testName))
		err := db.Close()
		if err != nil {
			t.Fatalf("%s: %s: Close: %s", opener.name, testName, err)
		}
	}
}

type keyValuePair struct {
	key   *database.Key
	value []byte
}

// populateDatabaseForTest writes ten entries into the root bucket and
// returns them in key order
func populateDatabaseForTest(t *testing.T, db database.Database, testName string) []keyValuePair {
	entries := make([]keyValuePair, 10)
	for i := range entries {
		entries[i] = keyValuePair{
			key:   database.MakeBucket(nil).Key([]byte(fmt.Sprintf("key%d", i))),
			value: []byte(fmt.Sprintf("value%d", i)),
		}
		err := db.Put(entries[i].key, entries[i].value)
		if err != nil {
			t.Fatalf("%s: Put: %s", testName, err)
		}
	}
	return entries
}
