package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstJoinCreatesRoomWithHost(t *testing.T) {
	r := New()

	res, ok := r.Join("conn-a", "movie1", "alice")
	require.True(t, ok)
	assert.True(t, res.IsHost, "first join must be host")
	assert.Equal(t, []string{"alice"}, res.Members)
	assert.Empty(t, res.Others)

	res, ok = r.Join("conn-b", "movie1", "bob")
	require.True(t, ok)
	assert.False(t, res.IsHost, "subsequent join must not be host")
	assert.Equal(t, []string{"alice", "bob"}, res.Members)
	assert.Equal(t, []string{"conn-a"}, res.Others)

	assert.True(t, r.IsHost("conn-a", "movie1"))
	assert.False(t, r.IsHost("conn-b", "movie1"))
}

func TestJoinRejectsBlankInput(t *testing.T) {
	r := New()

	_, ok := r.Join("conn-a", "", "alice")
	assert.False(t, ok)

	_, ok = r.Join("conn-a", "   ", "alice")
	assert.False(t, ok)

	_, ok = r.Join("conn-a", "movie1", "")
	assert.False(t, ok)

	_, ok = r.Join("conn-a", "movie1", "\t ")
	assert.False(t, ok)

	assert.Empty(t, r.ListMembers("movie1"), "failed join must not create a room")
}

func TestListMembersKeepsJoinOrder(t *testing.T) {
	r := New()

	r.Join("conn-a", "movie1", "alice")
	r.Join("conn-b", "movie1", "bob")
	r.Join("conn-c", "movie1", "carol")

	assert.Equal(t, []string{"alice", "bob", "carol"}, r.ListMembers("movie1"))
}

func TestRejoinOverwritesNameInPlace(t *testing.T) {
	r := New()

	r.Join("conn-a", "movie1", "alice")
	r.Join("conn-b", "movie1", "bob")
	r.Join("conn-c", "movie1", "carol")

	res, ok := r.Join("conn-b", "movie1", "bobby")
	require.True(t, ok)
	assert.False(t, res.IsHost)
	assert.Equal(t, []string{"conn-a", "conn-c"}, res.Others)
	assert.Equal(t, []string{"alice", "bobby", "carol"}, r.ListMembers("movie1"))
}

func TestLeaveAndReaddAppendsAtEnd(t *testing.T) {
	r := New()

	r.Join("conn-a", "movie1", "alice")
	r.Join("conn-b", "movie1", "bob")
	r.Join("conn-c", "movie1", "carol")

	destroyed := r.Leave("conn-b", "movie1")
	assert.False(t, destroyed)
	assert.Equal(t, []string{"alice", "carol"}, r.ListMembers("movie1"))

	_, ok := r.Join("conn-b", "movie1", "bob")
	require.True(t, ok)
	assert.Equal(t, []string{"alice", "carol", "bob"}, r.ListMembers("movie1"))
}

func TestHostLeaveDestroysRoom(t *testing.T) {
	r := New()

	r.Join("conn-a", "movie1", "alice")
	r.Join("conn-b", "movie1", "bob")

	destroyed := r.Leave("conn-a", "movie1")
	assert.True(t, destroyed, "host departure must destroy the room")
	assert.Empty(t, r.ListMembers("movie1"))
	assert.False(t, r.IsHost("conn-a", "movie1"))

	// the id is free again, the next joiner becomes host of a fresh room
	res, ok := r.Join("conn-b", "movie1", "bob")
	require.True(t, ok)
	assert.True(t, res.IsHost)
	assert.Equal(t, []string{"bob"}, r.ListMembers("movie1"))
}

func TestLeaveAbsentRoomOrMemberIsNoop(t *testing.T) {
	r := New()

	assert.False(t, r.Leave("conn-a", "nope"))

	r.Join("conn-a", "movie1", "alice")
	assert.False(t, r.Leave("conn-b", "movie1"))
	assert.Equal(t, []string{"alice"}, r.ListMembers("movie1"))
}

func TestBroadcastTargets(t *testing.T) {
	r := New()

	assert.Empty(t, r.BroadcastTargets("nope"))

	r.Join("conn-a", "movie1", "alice")
	r.Join("conn-b", "movie1", "bob")
	r.Join("conn-c", "movie1", "carol")

	assert.Equal(t, []string{"conn-a", "conn-b", "conn-c"}, r.BroadcastTargets("movie1"))
	assert.Equal(t, []string{"conn-b", "conn-c"}, r.BroadcastTargets("movie1", "conn-a"))
	assert.Equal(t, []string{"conn-b"}, r.BroadcastTargets("movie1", "conn-a", "conn-c"))
}

func TestDisplayName(t *testing.T) {
	r := New()

	r.Join("conn-a", "movie1", "alice")

	name, ok := r.DisplayName("conn-a", "movie1")
	require.True(t, ok)
	assert.Equal(t, "alice", name)

	_, ok = r.DisplayName("conn-b", "movie1")
	assert.False(t, ok)

	_, ok = r.DisplayName("conn-a", "nope")
	assert.False(t, ok)
}

func TestVideoReference(t *testing.T) {
	r := New()

	assert.False(t, r.SetVideoReference("nope", "abc"))
	assert.Equal(t, "", r.VideoReference("nope"))

	r.Join("conn-a", "movie1", "alice")
	require.True(t, r.SetVideoReference("movie1", "dQw4w9WgXcQ"))
	assert.Equal(t, "dQw4w9WgXcQ", r.VideoReference("movie1"))

	res, ok := r.Join("conn-b", "movie1", "bob")
	require.True(t, ok)
	assert.Equal(t, "dQw4w9WgXcQ", res.VideoRef, "joiner must receive the current video reference")
}

func TestRoomsAreIndependent(t *testing.T) {
	r := New()

	r.Join("conn-a", "movie1", "alice")
	r.Join("conn-b", "movie2", "bob")

	assert.True(t, r.IsHost("conn-a", "movie1"))
	assert.True(t, r.IsHost("conn-b", "movie2"))
	assert.False(t, r.IsHost("conn-a", "movie2"))

	r.Leave("conn-a", "movie1")
	assert.Equal(t, []string{"bob"}, r.ListMembers("movie2"))
}
