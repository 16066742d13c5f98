// Package registry owns all room and membership state. It is pure
// state-transition logic: no I/O, no logging, absence reported as
// empty/false results instead of errors.
package registry

import (
	"strings"
	"sync"
)

type member struct {
	connectionId string
	displayName  string
}

type room struct {
	hostId   string
	videoRef string
	// join order, first entry is always the host while it is present
	members []member
	index   map[string]int
}

type Registry struct {
	mu    sync.Mutex
	rooms map[string]*room
}

func New() *Registry {
	return &Registry{rooms: make(map[string]*room)}
}

type JoinResult struct {
	IsHost   bool
	Members  []string
	VideoRef string
	// connection ids of everyone but the joiner, taken in the same critical
	// section as the mutation so the fan-out list can never lag the member
	// snapshot
	Others []string
}

// Join registers connectionId in roomId. The first join under an unknown
// room id creates the room with that connection as host. Joining with a
// connection id that is already a member overwrites the display name in
// place, keeping the original position.
func (r *Registry) Join(connectionId, roomId, displayName string) (JoinResult, bool) {
	if strings.TrimSpace(roomId) == "" || strings.TrimSpace(displayName) == "" {
		return JoinResult{}, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomId]
	if !ok {
		rm = &room{
			hostId:  connectionId,
			members: []member{{connectionId: connectionId, displayName: displayName}},
			index:   map[string]int{connectionId: 0},
		}
		r.rooms[roomId] = rm

		return JoinResult{
			IsHost:   true,
			Members:  rm.memberNames(),
			VideoRef: rm.videoRef,
			Others:   []string{},
		}, true
	}

	if i, exists := rm.index[connectionId]; exists {
		rm.members[i].displayName = displayName
	} else {
		rm.index[connectionId] = len(rm.members)
		rm.members = append(rm.members, member{connectionId: connectionId, displayName: displayName})
	}

	others := make([]string, 0, len(rm.members)-1)
	for _, m := range rm.members {
		if m.connectionId != connectionId {
			others = append(others, m.connectionId)
		}
	}

	return JoinResult{
		IsHost:   false,
		Members:  rm.memberNames(),
		VideoRef: rm.videoRef,
		Others:   others,
	}, true
}

// Leave removes connectionId from roomId and reports whether the room was
// destroyed. Host departure always destroys the room, even if viewers
// remain; a departure that empties the room destroys it as well.
func (r *Registry) Leave(connectionId, roomId string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomId]
	if !ok {
		return false
	}

	i, exists := rm.index[connectionId]
	if !exists {
		return false
	}

	if connectionId == rm.hostId {
		delete(r.rooms, roomId)
		return true
	}

	rm.members = append(rm.members[:i], rm.members[i+1:]...)
	delete(rm.index, connectionId)
	for j := i; j < len(rm.members); j++ {
		rm.index[rm.members[j].connectionId] = j
	}

	if len(rm.members) == 0 {
		delete(r.rooms, roomId)
		return true
	}

	return false
}

// ListMembers returns display names in join order, empty when the room is
// absent. Consumers rely on the first entry being the host.
func (r *Registry) ListMembers(roomId string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomId]
	if !ok {
		return []string{}
	}

	return rm.memberNames()
}

func (r *Registry) IsHost(connectionId, roomId string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomId]
	if !ok {
		return false
	}

	return rm.hostId == connectionId
}

// BroadcastTargets returns the connection ids of all current members minus
// the excluded ones. Pure query; delivery is the transport's concern.
func (r *Registry) BroadcastTargets(roomId string, exclude ...string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomId]
	if !ok {
		return []string{}
	}

	targets := make([]string, 0, len(rm.members))
	for _, m := range rm.members {
		if contains(exclude, m.connectionId) {
			continue
		}
		targets = append(targets, m.connectionId)
	}

	return targets
}

// DisplayName resolves a member's current display name.
func (r *Registry) DisplayName(connectionId, roomId string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomId]
	if !ok {
		return "", false
	}

	i, exists := rm.index[connectionId]
	if !exists {
		return "", false
	}

	return rm.members[i].displayName, true
}

func (r *Registry) SetVideoReference(roomId, videoRef string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomId]
	if !ok {
		return false
	}

	rm.videoRef = videoRef
	return true
}

func (r *Registry) VideoReference(roomId string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomId]
	if !ok {
		return ""
	}

	return rm.videoRef
}

func (rm *room) memberNames() []string {
	names := make([]string, 0, len(rm.members))
	for _, m := range rm.members {
		names = append(names, m.displayName)
	}

	return names
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}

	return false
}
