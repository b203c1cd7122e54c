package clickhouse

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientConfig_DSN(t *testing.T) {
	cfg := ClientConfig{
		Host: "ch", Port: 9000, Database: "pitchdeck", User: "default", Password: "pw",
		DialTimeout: 5 * time.Second, MaxExecTime: 30 * time.Second,
		AsyncInsert: true, WaitForAsync: true,
	}
	assert.Equal(t,
		"clickhouse://default:pw@ch:9000/pitchdeck?async_insert=1&dial_timeout=5s&max_execution_time=30&wait_for_async_insert=1",
		cfg.dsn())

	cfg = ClientConfig{Host: "ch", Port: 8123, Database: "d", User: "u", UseHTTP: true}
	assert.Equal(t, "clickhouse+http://u:@ch:8123/d", cfg.dsn())
}

func TestClientConfig_EscapesPassword(t *testing.T) {
	cfg := ClientConfig{Host: "ch", Port: 9000, Database: "d", User: "u", Password: "p@ss/word"}
	assert.Equal(t, "clickhouse://u:p%40ss%2Fword@ch:9000/d", cfg.dsn())
}

func TestNewClient_Validates(t *testing.T) {
	_, err := NewClient()
	require.EqualError(t, err, "host is required")

	_, err = NewClient(WithAddr("ch", 9000))
	require.EqualError(t, err, "database is required")
}

func TestEventsSchema(t *testing.T) {
	stmts := EventsSchema("pitchdeck")
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE DATABASE IF NOT EXISTS pitchdeck", stmts[0])
	assert.True(t, strings.HasPrefix(stmts[1], "CREATE TABLE IF NOT EXISTS pitchdeck.deck_events"))
}
