package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoAdminBase/GoAdminBase/internal/fieldcrypt"
)

func TestSnapshotNormalization(t *testing.T) {
	createdAt := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	setting := &Setting{
		ID:          7,
		Key:         "maintenance_mode",
		Datatype:    DatatypeBoolean,
		Value:       "true",
		Description: "toggle",
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}

	snap := Snapshot(setting)

	assert.Equal(t, uint64(7), snap["id"])
	assert.Equal(t, "maintenance_mode", snap["key"])
	assert.Equal(t, "boolean", snap["datatype"])
	assert.Equal(t, "2024-03-01 12:30:00", snap["created_at"])
	assert.Equal(t, "2024-03-01 12:30:00", snap["updated_at"])

	// tracking metadata never shows up in the snapshot
	_, ok := snap["meta"]
	assert.False(t, ok)
	_, ok = snap["persisted"]
	assert.False(t, ok)
}

func TestSnapshotLeavesMetadataIntact(t *testing.T) {
	setting := &Setting{Key: "site_title", Datatype: DatatypeString, Value: "home"}
	setting.MarkPersisted()

	_ = Snapshot(setting)

	// the entity is live and continues to be used after serialization
	assert.True(t, setting.Persisted())

	_, err := ToJSON(setting)
	require.NoError(t, err)
	assert.True(t, setting.Persisted())
}

func TestSnapshotUser(t *testing.T) {
	require.NoError(t, fieldcrypt.Init("test-secret"))

	lastLogin := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)
	password := fieldcrypt.EncryptedString("s3cret")

	user := &User{
		ID:           3,
		EmailAddress: "admin@example.com",
		Password:     &password,
		AuthSource:   AuthSourceLocal,
		LastLoginAt:  &lastLogin,
	}

	snap := Snapshot(user)

	assert.Equal(t, "admin@example.com", snap["email_address"])
	assert.Equal(t, "s3cret", snap["password"])
	assert.Equal(t, "local", snap["auth_source"])
	assert.Equal(t, "2024-05-02 08:00:00", snap["last_login_at"])
	assert.Equal(t, "", snap["external_id"])
}

func TestSnapshotNilPointerFields(t *testing.T) {
	user := &User{ID: 1, EmailAddress: "nobody@example.com"}

	snap := Snapshot(user)

	assert.Nil(t, snap["password"])
	assert.Nil(t, snap["last_login_at"])
}

func TestToJSON(t *testing.T) {
	setting := &Setting{
		ID:       1,
		Key:      "page_size",
		Datatype: DatatypeInt,
		Value:    "25",
	}

	out, err := ToJSON(setting)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))

	assert.Equal(t, "page_size", decoded["key"])
	assert.Equal(t, "25", decoded["value"])
	assert.Equal(t, float64(1), decoded["id"])
}

func TestSnakeCase(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{in: "ID", want: "id"},
		{in: "Key", want: "key"},
		{in: "EmailAddress", want: "email_address"},
		{in: "ExternalID", want: "external_id"},
		{in: "LastLoginAt", want: "last_login_at"},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, snakeCase(tc.in))
		})
	}
}

func TestVerifyPassword(t *testing.T) {
	require.NoError(t, fieldcrypt.Init("test-secret"))

	password := fieldcrypt.EncryptedString("correct-horse")
	user := &User{EmailAddress: "a@b.c", Password: &password}

	assert.True(t, user.VerifyPassword("correct-horse"))
	assert.False(t, user.VerifyPassword("wrong"))

	federated := &User{EmailAddress: "c@d.e", AuthSource: AuthSourceOIDC}
	assert.False(t, federated.VerifyPassword("anything"))
	assert.False(t, federated.HasPassword())
}
