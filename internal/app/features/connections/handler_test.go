package connections_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/campusgrid/campusgrid/internal/app/features/connections"
	"github.com/campusgrid/campusgrid/internal/app/system/apierr"
	"github.com/campusgrid/campusgrid/internal/app/system/indexes"
	"github.com/campusgrid/campusgrid/internal/domain/models"
	"github.com/campusgrid/campusgrid/internal/testutil"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events map[string][]string // profileID -> event names
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{events: make(map[string][]string)}
}

func (n *recordingNotifier) SendToUser(profileID, event string, _ any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events[profileID] = append(n.events[profileID], event)
}

func (n *recordingNotifier) eventsFor(profileID string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.events[profileID]
}

func newHandler(t *testing.T) (*connections.Handler, *recordingNotifier) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	if err := indexes.EnsureAll(testutil.TestContext(t), db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	notifier := newRecordingNotifier()
	h := connections.NewHandler(db, notifier, apierr.NewErrorLogger(zap.NewNop()), zap.NewNop())
	return h, notifier
}

func TestRequestAcceptFlow(t *testing.T) {
	h, notifier := newHandler(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, h.DB)

	requester := fx.CreateProfile(ctx, "Ada", "CS", nil)
	recipient := fx.CreateProfile(ctx, "Grace", "CS", nil)

	// Request.
	req := testutil.NewAuthenticatedRequest("POST", "/connections/"+recipient.ID.Hex(), testutil.StudentUserFor(requester.ID))
	req = testutil.WithChiURLParam(req, "id", recipient.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleRequest(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("request: status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	var conn models.Connection
	if err := json.Unmarshal(rec.Body.Bytes(), &conn); err != nil {
		t.Fatalf("parse connection: %v", err)
	}
	if conn.Status != models.ConnectionPending {
		t.Fatalf("status = %q, want pending", conn.Status)
	}

	// Both sides got a connection_update push.
	for _, id := range []string{requester.ID.Hex(), recipient.ID.Hex()} {
		evs := notifier.eventsFor(id)
		if len(evs) != 1 || evs[0] != connections.EventConnectionUpdate {
			t.Fatalf("events for %s = %v", id, evs)
		}
	}

	// A duplicate request, in either direction, conflicts.
	req = testutil.NewAuthenticatedRequest("POST", "/connections/"+requester.ID.Hex(), testutil.StudentUserFor(recipient.ID))
	req = testutil.WithChiURLParam(req, "id", requester.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleRequest(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate: status = %d, want 409", rec.Code)
	}

	// Accept as the recipient.
	req = testutil.NewAuthenticatedRequest("POST", "/connections/"+conn.ID.Hex()+"/accept", testutil.StudentUserFor(recipient.ID))
	req = testutil.WithChiURLParam(req, "id", conn.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleAccept(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("accept: status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &conn); err != nil {
		t.Fatalf("parse connection: %v", err)
	}
	if conn.Status != models.ConnectionAccepted || conn.DecidedAt == nil {
		t.Fatalf("accepted connection = %+v", conn)
	}

	// Accepting again is a conflict.
	req = testutil.NewAuthenticatedRequest("POST", "/connections/"+conn.ID.Hex()+"/accept", testutil.StudentUserFor(recipient.ID))
	req = testutil.WithChiURLParam(req, "id", conn.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleAccept(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("re-accept: status = %d, want 409", rec.Code)
	}
}

func TestRequestValidation(t *testing.T) {
	h, _ := newHandler(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, h.DB)

	p := fx.CreateProfile(ctx, "Ada", "CS", nil)

	// Requesting yourself.
	req := testutil.NewAuthenticatedRequest("POST", "/connections/"+p.ID.Hex(), testutil.StudentUserFor(p.ID))
	req = testutil.WithChiURLParam(req, "id", p.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleRequest(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("self request: status = %d, want 400", rec.Code)
	}

	// Unknown target profile.
	req = testutil.NewAuthenticatedRequest("POST", "/connections/ffffffffffffffffffffffff", testutil.StudentUserFor(p.ID))
	req = testutil.WithChiURLParam(req, "id", "ffffffffffffffffffffffff")
	rec = httptest.NewRecorder()
	h.HandleRequest(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown target: status = %d, want 404", rec.Code)
	}

	// Malformed ID.
	req = testutil.NewAuthenticatedRequest("POST", "/connections/nope", testutil.StudentUserFor(p.ID))
	req = testutil.WithChiURLParam(req, "id", "nope")
	rec = httptest.NewRecorder()
	h.HandleRequest(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed id: status = %d, want 400", rec.Code)
	}
}

func TestDecideOnlyRecipient(t *testing.T) {
	h, _ := newHandler(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, h.DB)

	requester := fx.CreateProfile(ctx, "Ada", "CS", nil)
	recipient := fx.CreateProfile(ctx, "Grace", "CS", nil)
	conn := fx.CreateConnection(ctx, requester.ID, recipient.ID, models.ConnectionPending)

	// The requester cannot accept their own request.
	req := testutil.NewAuthenticatedRequest("POST", "/connections/"+conn.ID.Hex()+"/accept", testutil.StudentUserFor(requester.ID))
	req = testutil.WithChiURLParam(req, "id", conn.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleAccept(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("requester accept: status = %d, want 409", rec.Code)
	}

	// The recipient can decline.
	req = testutil.NewAuthenticatedRequest("POST", "/connections/"+conn.ID.Hex()+"/decline", testutil.StudentUserFor(recipient.ID))
	req = testutil.WithChiURLParam(req, "id", conn.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleDecline(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("decline: status = %d, want 200", rec.Code)
	}
	var got models.Connection
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("parse connection: %v", err)
	}
	if got.Status != models.ConnectionDeclined {
		t.Fatalf("status = %q, want declined", got.Status)
	}
}

func TestServeList(t *testing.T) {
	h, _ := newHandler(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, h.DB)

	a := fx.CreateProfile(ctx, "Ada", "CS", nil)
	b := fx.CreateProfile(ctx, "Grace", "CS", nil)
	c := fx.CreateProfile(ctx, "Edsger", "CS", nil)
	fx.CreateConnection(ctx, a.ID, b.ID, models.ConnectionPending)
	fx.CreateConnection(ctx, c.ID, a.ID, models.ConnectionAccepted)

	req := testutil.NewAuthenticatedRequest("GET", "/connections", testutil.StudentUserFor(a.ID))
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var conns []models.Connection
	if err := json.Unmarshal(rec.Body.Bytes(), &conns); err != nil {
		t.Fatalf("parse list: %v", err)
	}
	if len(conns) != 2 {
		t.Fatalf("got %d connections, want 2", len(conns))
	}

	// Status filter.
	req = testutil.NewAuthenticatedRequest("GET", "/connections?status=accepted", testutil.StudentUserFor(a.ID))
	rec = httptest.NewRecorder()
	h.ServeList(rec, req)
	if err := json.Unmarshal(rec.Body.Bytes(), &conns); err != nil {
		t.Fatalf("parse list: %v", err)
	}
	if len(conns) != 1 || conns[0].Status != models.ConnectionAccepted {
		t.Fatalf("filtered list = %+v", conns)
	}

	// Invalid status value.
	req = testutil.NewAuthenticatedRequest("GET", "/connections?status=blocked", testutil.StudentUserFor(a.ID))
	rec = httptest.NewRecorder()
	h.ServeList(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid status: status = %d, want 400", rec.Code)
	}
}
