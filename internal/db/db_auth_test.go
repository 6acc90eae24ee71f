package db

// Note: Unit tests for the auth-related repository methods are not included
// here because these methods require database access. Coverage lives in
// db_auth_integration_test.go (password lifecycle, email existence checks)
// and db_users_test.go (lookup and update against missing rows).
