package handlers_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/n4rclss/classfabric/handlers"
	liblog "github.com/n4rclss/classfabric/logger"
	"github.com/n4rclss/classfabric/protocol"
)

type fakeDirectory struct {
	mu          sync.Mutex
	byUsername  map[string]string
	byClientID  map[string]string
	registerErr error
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		byUsername: make(map[string]string),
		byClientID: make(map[string]string),
	}
}

func (f *fakeDirectory) Register(username, clientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.registerErr != nil {
		return f.registerErr
	}
	if prior, ok := f.byClientID[clientID]; ok && prior != username {
		delete(f.byUsername, prior)
	}
	f.byUsername[username] = clientID
	f.byClientID[clientID] = username
	return nil
}

func (f *fakeDirectory) UnregisterByUsername(username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cid, ok := f.byUsername[username]; ok {
		delete(f.byClientID, cid)
		delete(f.byUsername, username)
	}
	return nil
}

func (f *fakeDirectory) UnregisterByClientID(clientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if uname, ok := f.byClientID[clientID]; ok {
		delete(f.byUsername, uname)
		delete(f.byClientID, clientID)
	}
	return nil
}

func (f *fakeDirectory) LookupClientID(username string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cid, ok := f.byUsername[username]
	return cid, ok, nil
}

func (f *fakeDirectory) LookupUsername(clientID string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	uname, ok := f.byClientID[clientID]
	return uname, ok, nil
}

func noopLog() liblog.Logger { return liblog.Discard() }

func newCtx(clientID string, dir *fakeDirectory, store *handlers.MemoryStore, push handlers.PushFunc) *handlers.Context {
	return &handlers.Context{
		ClientID:  clientID,
		Push:      push,
		Directory: dir,
		Auth:      store,
		Rooms:     store,
		Log:       noopLog,
	}
}

func TestHandleLogin_SuccessRegistersDirectory(t *testing.T) {
	dir := newFakeDirectory()
	store := handlers.NewMemoryStore()
	ctx := newCtx("c1", dir, store, nil)

	resp, err := handlers.HandleLogin(ctx, &protocol.Login{
		Type: protocol.TypeLogin, Username: "teacher1", Password: "teach123", Role: "teacher",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := resp.(protocol.Response)
	if r.Status != protocol.StatusSuccess || r.Message != "Login successful" {
		t.Fatalf("unexpected response: %+v", r)
	}
	if cid, ok, _ := dir.LookupClientID("teacher1"); !ok || cid != "c1" {
		t.Fatalf("expected teacher1 registered to c1, got %q ok=%v", cid, ok)
	}
}

func TestHandleLogin_InvalidCredentials(t *testing.T) {
	dir := newFakeDirectory()
	store := handlers.NewMemoryStore()
	ctx := newCtx("c1", dir, store, nil)

	resp, err := handlers.HandleLogin(ctx, &protocol.Login{
		Type: protocol.TypeLogin, Username: "teacher1", Password: "wrong", Role: "teacher",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := resp.(protocol.Response)
	if r.Status != protocol.StatusError || r.Message != "Invalid credentials or role" {
		t.Fatalf("unexpected response: %+v", r)
	}
}

func TestHandleLogin_DirectoryFailureStillSucceeds(t *testing.T) {
	dir := newFakeDirectory()
	dir.registerErr = errors.New("boom")
	store := handlers.NewMemoryStore()
	ctx := newCtx("c1", dir, store, nil)

	resp, err := handlers.HandleLogin(ctx, &protocol.Login{
		Type: protocol.TypeLogin, Username: "student1", Password: "stu456", Role: "student",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := resp.(protocol.Response)
	if r.Status != protocol.StatusSuccess {
		t.Fatalf("expected login to still succeed despite directory error, got %+v", r)
	}
}

func TestHandleLogout_UnregistersCaller(t *testing.T) {
	dir := newFakeDirectory()
	_ = dir.Register("teacher1", "c1")
	store := handlers.NewMemoryStore()
	store.CreateRoom("r1", "teacher1")
	ctx := newCtx("c1", dir, store, nil)

	resp, err := handlers.HandleLogout(ctx, &protocol.Logout{Type: protocol.TypeLogout, Teacher: "teacher1", RoomID: "r1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.(protocol.Response).Status != protocol.StatusSuccess {
		t.Fatalf("expected success response")
	}
	if _, ok, _ := dir.LookupClientID("teacher1"); ok {
		t.Fatalf("expected teacher1 to be unregistered")
	}
	if _, ok := store.Teacher("r1"); ok {
		t.Fatalf("expected room r1 to be removed on logout")
	}
}

func TestHandleCreateRoomJoinRoomRefresh(t *testing.T) {
	dir := newFakeDirectory()
	store := handlers.NewMemoryStore()
	ctx := newCtx("c1", dir, store, nil)

	if _, err := handlers.HandleCreateRoom(ctx, &protocol.CreateRoom{Type: protocol.TypeCreateRoom, RoomID: "r1", Teacher: "teacher1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := handlers.HandleJoinRoom(ctx, &protocol.JoinRoom{
		Type: protocol.TypeJoinRoom, RoomID: "r1", Username: "student1", MSSV: "20120001", StudentName: "Alice",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.(protocol.Response).Status != protocol.StatusSuccess {
		t.Fatalf("expected join to succeed, got %+v", resp)
	}

	refreshResp, err := handlers.HandleRefresh(ctx, &protocol.Refresh{Type: protocol.TypeRefresh, RoomID: "r1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rr := refreshResp.(protocol.RefreshResponse)
	if len(rr.Participants) != 1 || rr.Participants[0].Username != "student1" {
		t.Fatalf("unexpected roster: %+v", rr.Participants)
	}
}

func TestHandleJoinRoom_UnknownRoom(t *testing.T) {
	dir := newFakeDirectory()
	store := handlers.NewMemoryStore()
	ctx := newCtx("c1", dir, store, nil)

	resp, err := handlers.HandleJoinRoom(ctx, &protocol.JoinRoom{
		Type: protocol.TypeJoinRoom, RoomID: "ghost", Username: "student1", MSSV: "1", StudentName: "A",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.(protocol.Response).Status != protocol.StatusError {
		t.Fatalf("expected error response for unknown room")
	}
}

func TestHandleNotify_PushesOnlineReportsOffline(t *testing.T) {
	dir := newFakeDirectory()
	store := handlers.NewMemoryStore()

	_ = dir.Register("teacher1", "tc1")
	_ = dir.Register("student_online", "sc1")
	store.CreateRoom("r1", "teacher1")
	store.JoinRoom("r1", "student_online", "1", "Online Kid")
	store.JoinRoom("r1", "student_offline", "2", "Offline Kid")

	var pushed []string
	push := func(targetClientID string, payload interface{}) error {
		pushed = append(pushed, targetClientID)
		return nil
	}
	ctx := newCtx("tc1", dir, store, push)

	resp, err := handlers.HandleNotify(ctx, &protocol.Notify{
		Type: protocol.TypeNotify, RoomID: "r1", NotiMessage: "hi",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nr := resp.(protocol.NotifyResponse)
	if nr.Status != protocol.StatusSuccess {
		t.Fatalf("expected success, got %+v", nr)
	}
	if len(pushed) != 1 || pushed[0] != "sc1" {
		t.Fatalf("expected exactly one push to sc1, got %v", pushed)
	}
	if len(nr.Offline) != 1 || nr.Offline[0] != "student_offline" {
		t.Fatalf("expected student_offline reported offline, got %v", nr.Offline)
	}
}

func TestHandleNotify_RejectsNonTeacher(t *testing.T) {
	dir := newFakeDirectory()
	store := handlers.NewMemoryStore()
	_ = dir.Register("student1", "sc1")
	store.CreateRoom("r1", "teacher1")

	ctx := newCtx("sc1", dir, store, func(string, interface{}) error { return nil })

	resp, err := handlers.HandleNotify(ctx, &protocol.Notify{Type: protocol.TypeNotify, RoomID: "r1", NotiMessage: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := resp.(protocol.NotifyResponse)
	if r.Status != protocol.StatusError || r.Message != "Only the teacher can send notifications in this room." {
		t.Fatalf("unexpected response: %+v", r)
	}
}

func TestHandleStreamingAndRequestApp_TargetOffline(t *testing.T) {
	dir := newFakeDirectory()
	store := handlers.NewMemoryStore()
	ctx := newCtx("c1", dir, store, func(string, interface{}) error { return nil })

	resp, err := handlers.HandleStreaming(ctx, &protocol.Streaming{Type: protocol.TypeStreaming, TargetUsername: "ghost"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.(protocol.Response).Status != protocol.StatusError {
		t.Fatalf("expected offline target to error")
	}

	resp, err = handlers.HandleRequestApp(ctx, &protocol.RequestApp{Type: protocol.TypeRequestApp, TargetUsername: "ghost"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.(protocol.Response).Status != protocol.StatusError {
		t.Fatalf("expected offline request_app target to error")
	}
}

func TestHandleScreenDataAndReturnApp_RelayToSender(t *testing.T) {
	dir := newFakeDirectory()
	store := handlers.NewMemoryStore()

	var pushedTo string
	var pushedPayload interface{}
	push := func(targetClientID string, payload interface{}) error {
		pushedTo = targetClientID
		pushedPayload = payload
		return nil
	}
	ctx := newCtx("sender-c1", dir, store, push)

	resp, err := handlers.HandleScreenData(ctx, &protocol.ScreenData{
		Type: protocol.TypeScreenData, ImageData: "base64...", SenderClientID: "watcher-c1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.(protocol.Response).Status != protocol.StatusSuccess {
		t.Fatalf("expected success relaying screen data")
	}
	if pushedTo != "watcher-c1" {
		t.Fatalf("expected relay to watcher-c1, got %q", pushedTo)
	}
	if _, ok := pushedPayload.(*protocol.ScreenData); !ok {
		t.Fatalf("expected relayed payload to be the screen data packet")
	}

	resp, err = handlers.HandleReturnApp(ctx, &protocol.ReturnApp{
		Type: protocol.TypeReturnApp, SenderClientID: "requester-c1",
		AppData: []protocol.RunningApp{{ProcessName: "p", MainWindowTitle: "t"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.(protocol.Response).Status != protocol.StatusSuccess {
		t.Fatalf("expected success relaying the application list")
	}
	if pushedTo != "requester-c1" {
		t.Fatalf("expected relay to requester-c1, got %q", pushedTo)
	}
	if _, ok := pushedPayload.(*protocol.ReturnApp); !ok {
		t.Fatalf("expected relayed payload to be the return_app packet")
	}
}
