package postgres

import (
	"fmt"
	"time"
)

const (
	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	errUserNotFound    = "user not found"
	errUserEmailExists = "user with this email already exists"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"

	errFailedStartTransactionFmt  = "failed to start transaction: %w"
	errFailedCommitTransactionFmt = "failed to commit transaction: %w"
	errFailedApplySchemaFmt       = "failed to apply schema: %w"

	errFailedCreateUserFmt         = "failed to create user: %w"
	errFailedGetUserFmt            = "failed to get user: %w"
	errFailedListUsersFmt          = "failed to list users: %w"
	errFailedScanUserFmt           = "failed to scan user: %w"
	errIterateUsersFmt             = "error iterating users: %w"
	errFailedUpdateUserFmt         = "failed to update user: %w"
	errFailedUpdatePasswordHashFmt = "failed to update password hash: %w"
	errFailedDeleteUserFmt         = "failed to delete user: %w"
	errUnknownStoredRoleFmt        = "unknown stored role: %w"
)

var (
	errFailedApplySchema          = func(err error) error { return fmt.Errorf(errFailedApplySchemaFmt, err) }
	errFailedCommitTransaction    = func(err error) error { return fmt.Errorf(errFailedCommitTransactionFmt, err) }
	errFailedCreateConnectionPool = func(err error) error { return fmt.Errorf(errFailedCreateConnectionPoolFmt, err) }
	errFailedCreateUser           = func(err error) error { return fmt.Errorf(errFailedCreateUserFmt, err) }
	errFailedDeleteUser           = func(err error) error { return fmt.Errorf(errFailedDeleteUserFmt, err) }
	errFailedGetUser              = func(err error) error { return fmt.Errorf(errFailedGetUserFmt, err) }
	errFailedListUsers            = func(err error) error { return fmt.Errorf(errFailedListUsersFmt, err) }
	errFailedParseDatabaseConfig  = func(err error) error { return fmt.Errorf(errFailedParseDatabaseConfigFmt, err) }
	errFailedPingDatabase         = func(err error) error { return fmt.Errorf(errFailedPingDatabaseFmt, err) }
	errFailedScanUser             = func(err error) error { return fmt.Errorf(errFailedScanUserFmt, err) }
	errFailedStartTransaction     = func(err error) error { return fmt.Errorf(errFailedStartTransactionFmt, err) }
	errFailedUpdatePasswordHash   = func(err error) error { return fmt.Errorf(errFailedUpdatePasswordHashFmt, err) }
	errFailedUpdateUser           = func(err error) error { return fmt.Errorf(errFailedUpdateUserFmt, err) }
	errIterateUsers               = func(err error) error { return fmt.Errorf(errIterateUsersFmt, err) }
	errUnknownStoredRole          = func(err error) error { return fmt.Errorf(errUnknownStoredRoleFmt, err) }
)
