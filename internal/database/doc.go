// Package database provides the PostgreSQL connection pool for the
// back-office catalog (sports, competitions, events), the market
// directory and the user hierarchy.
package database
