// Package testdb provides helpers for tests that run against a real
// PostgreSQL database.
//
// Tests call GetTestDBWithT, which skips the test when no test database URL
// is configured, connects, and applies the embedded migrations. WithTx runs a
// test body inside a transaction that is always rolled back:
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        store := postgres.NewPostgresDeckStore(tx, nil)
//	        // ...
//	    })
//	}
package testdb
