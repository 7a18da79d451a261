package protocol_test

import (
	"testing"

	"github.com/n4rclss/classfabric/protocol"
)

func TestDecode_Login(t *testing.T) {
	typ, packet, err := protocol.Decode([]byte(`{"type":"login","username":"stu1","password":"s","role":"student"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if typ != protocol.TypeLogin {
		t.Fatalf("expected login type, got %q", typ)
	}
	login, ok := packet.(*protocol.Login)
	if !ok {
		t.Fatalf("expected *protocol.Login, got %T", packet)
	}
	if login.Username != "stu1" {
		t.Fatalf("unexpected username: %q", login.Username)
	}
}

func TestDecode_UnknownType(t *testing.T) {
	_, _, err := protocol.Decode([]byte(`{"type":"zzz"}`))
	if err == nil {
		t.Fatalf("expected an error for an unrecognized type")
	}
}

func TestDecode_MissingType(t *testing.T) {
	_, _, err := protocol.Decode([]byte(`{"username":"a"}`))
	if err == nil {
		t.Fatalf("expected an error when type is missing")
	}
}

func TestDecode_MalformedJSON(t *testing.T) {
	_, _, err := protocol.Decode([]byte(`not json`))
	if err == nil {
		t.Fatalf("expected an error for malformed JSON")
	}
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	_, _, err := protocol.Decode([]byte(`{"type":"login","username":"a","password":"b","role":"student","extra":"nope"}`))
	if err == nil {
		t.Fatalf("expected schema-closed decoding to reject extra fields")
	}
}

func TestDecode_RejectsInvalidRole(t *testing.T) {
	_, _, err := protocol.Decode([]byte(`{"type":"login","username":"a","password":"b","role":"admin"}`))
	if err == nil {
		t.Fatalf("expected validation to reject a role outside {teacher, student}")
	}
}

func TestDecode_RejectsMissingRequiredField(t *testing.T) {
	_, _, err := protocol.Decode([]byte(`{"type":"create_room","room_id":"r1"}`))
	if err == nil {
		t.Fatalf("expected validation to reject a create_room missing teacher")
	}
}

func TestDecode_ReturnAppWithNestedList(t *testing.T) {
	typ, packet, err := protocol.Decode([]byte(`{"type":"return_app","sender_client_id":"c1","app_data":[{"process_name":"p","main_window_title":"t"}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if typ != protocol.TypeReturnApp {
		t.Fatalf("expected return_app type, got %q", typ)
	}
	ra := packet.(*protocol.ReturnApp)
	if len(ra.AppData) != 1 || ra.AppData[0].ProcessName != "p" {
		t.Fatalf("unexpected app data: %+v", ra.AppData)
	}
}
