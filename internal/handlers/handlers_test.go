package handlers

// Integration tests against a real MongoDB. Set MONGO_TEST_URI to run them,
// e.g. MONGO_TEST_URI=mongodb://localhost:27017 go test ./internal/handlers/.
// Each test gets a throwaway database that is dropped afterwards.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/doctors-portal/server/internal/models"
	"github.com/doctors-portal/server/internal/services"
	"github.com/doctors-portal/server/internal/store"
	"github.com/doctors-portal/server/internal/token"
)

var testSecret = []byte("handlers-test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router *gin.Engine
	db     *mongo.Database
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set; skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, mongoopts.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	db := client.Database("doctors_portal_test_" + uuid.NewString()[:8])
	if err := store.EnsureBookingIndexes(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	notifier := services.NewNotificationService("", zerolog.Nop())
	h := NewHandler(db, zerolog.Nop(), testSecret, notifier)
	r := gin.New()
	h.Register(r)

	return &testEnv{router: r, db: db}
}

func (e *testEnv) do(t *testing.T, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func mustToken(t *testing.T, email string) string {
	t.Helper()
	tok, err := token.Issue(testSecret, email)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func seedAdmin(t *testing.T, e *testEnv, email string) string {
	t.Helper()
	ctx := context.Background()
	_, err := e.db.Collection("users").InsertOne(ctx, models.User{Email: email, Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return mustToken(t, email)
}

func TestCreateBooking_DuplicateReturnsExisting(t *testing.T) {
	e := setupEnv(t)

	booking := map[string]string{
		"treatment": "Teeth Cleaning",
		"date":      "2024-01-01",
		"patient":   "a@x.com",
		"slot":      "9:00 AM",
	}

	w := e.do(t, http.MethodPost, "/booking", "", booking)
	if w.Code != http.StatusOK {
		t.Fatalf("first create: status %d, body %s", w.Code, w.Body.String())
	}
	var first struct {
		Success bool `json:"success"`
		Result  struct {
			InsertedID interface{} `json:"insertedId"`
		} `json:"result"`
	}
	decodeBody(t, w, &first)
	if !first.Success || first.Result.InsertedID == nil {
		t.Fatalf("first create: got %+v", first)
	}

	// Same key, different slot: still a conflict.
	booking["slot"] = "10:00 AM"
	w = e.do(t, http.MethodPost, "/booking", "", booking)
	if w.Code != http.StatusOK {
		t.Fatalf("second create: status %d", w.Code)
	}
	var second struct {
		Success bool           `json:"success"`
		Booking models.Booking `json:"booking"`
	}
	decodeBody(t, w, &second)
	if second.Success {
		t.Error("second create: expected success=false")
	}
	if second.Booking.Slot != "9:00 AM" {
		t.Errorf("echoed booking slot = %q, want the original 9:00 AM", second.Booking.Slot)
	}

	count, err := e.db.Collection("booking").CountDocuments(context.Background(), bson.M{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("booking count = %d, want 1", count)
	}
}

func TestAvailability_RemovesBookedSlot(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	_, err := e.db.Collection("services").InsertOne(ctx, models.Service{
		Name:  "Teeth Cleaning",
		Slots: []string{"8:00 AM", "9:00 AM", "10:00 AM"},
	})
	if err != nil {
		t.Fatalf("seed service: %v", err)
	}

	w := e.do(t, http.MethodPost, "/booking", "", map[string]string{
		"treatment": "Teeth Cleaning",
		"date":      "2024-01-01",
		"patient":   "a@x.com",
		"slot":      "9:00 AM",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create booking: status %d", w.Code)
	}

	w = e.do(t, http.MethodGet, "/available?date=2024-01-01", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("available: status %d", w.Code)
	}
	var available []models.Service
	decodeBody(t, w, &available)
	if len(available) != 1 {
		t.Fatalf("available services = %d, want 1", len(available))
	}
	got := available[0].Slots
	want := []string{"8:00 AM", "10:00 AM"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("slots = %v, want %v", got, want)
	}

	// A different date is untouched.
	w = e.do(t, http.MethodGet, "/available?date=2024-01-02", "", nil)
	decodeBody(t, w, &available)
	if len(available[0].Slots) != 3 {
		t.Errorf("slots on other date = %v, want all 3", available[0].Slots)
	}
}

func TestGetMyBookings_SelfOnly(t *testing.T) {
	e := setupEnv(t)

	w := e.do(t, http.MethodPost, "/booking", "", map[string]string{
		"treatment": "Teeth Whitening",
		"date":      "2024-02-02",
		"patient":   "self@x.com",
		"slot":      "8:00 AM",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create booking: status %d", w.Code)
	}

	tok := mustToken(t, "self@x.com")

	w = e.do(t, http.MethodGet, "/booking?patient=other@x.com", tok, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign patient: status %d, want 403", w.Code)
	}

	w = e.do(t, http.MethodGet, "/booking?patient=self@x.com", tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("own bookings: status %d", w.Code)
	}
	var bookings []models.Booking
	decodeBody(t, w, &bookings)
	if len(bookings) != 1 || bookings[0].Treatment != "Teeth Whitening" {
		t.Errorf("bookings = %+v, want the one created", bookings)
	}

	w = e.do(t, http.MethodGet, "/booking?patient=self@x.com", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token: status %d, want 401", w.Code)
	}
}

func TestUpsertUser_MergesFieldsAndIssuesToken(t *testing.T) {
	e := setupEnv(t)

	w := e.do(t, http.MethodPut, "/user/p@x.com", "", map[string]interface{}{"name": "A"})
	if w.Code != http.StatusOK {
		t.Fatalf("first upsert: status %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, w, &resp)
	if resp.Token == "" {
		t.Fatal("expected a token in the upsert response")
	}
	claims, err := token.Verify(testSecret, resp.Token)
	if err != nil || claims.Email != "p@x.com" {
		t.Fatalf("token claims = %+v, err %v", claims, err)
	}

	w = e.do(t, http.MethodPut, "/user/p@x.com", "", map[string]interface{}{"education": "BSc"})
	if w.Code != http.StatusOK {
		t.Fatalf("second upsert: status %d", w.Code)
	}

	var user models.User
	err = e.db.Collection("users").FindOne(context.Background(), bson.M{"email": "p@x.com"}).Decode(&user)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if user.Name != "A" || user.Education != "BSc" {
		t.Errorf("user = %+v, want name A and education BSc merged", user)
	}

	count, _ := e.db.Collection("users").CountDocuments(context.Background(), bson.M{})
	if count != 1 {
		t.Errorf("user count = %d, want 1", count)
	}
}

func TestAdminStatus_SelfOnlyAndPromotion(t *testing.T) {
	e := setupEnv(t)
	adminTok := seedAdmin(t, e, "boss@x.com")

	// Regular user signs up.
	w := e.do(t, http.MethodPut, "/user/u@x.com", "", map[string]interface{}{"name": "U"})
	if w.Code != http.StatusOK {
		t.Fatalf("upsert: status %d", w.Code)
	}
	userTok := mustToken(t, "u@x.com")

	// Asking about someone else is forbidden, even for an admin's token.
	w = e.do(t, http.MethodGet, "/admin/u@x.com", adminTok, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign admin query: status %d, want 403", w.Code)
	}

	var status struct {
		Admin bool `json:"admin"`
	}
	w = e.do(t, http.MethodGet, "/admin/u@x.com", userTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("self admin query: status %d", w.Code)
	}
	decodeBody(t, w, &status)
	if status.Admin {
		t.Error("unpromoted user reported as admin")
	}

	// Non-admin cannot promote.
	w = e.do(t, http.MethodPut, "/users/admin/u@x.com", userTok, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("non-admin promote: status %d, want 403", w.Code)
	}

	// Admin promotes; the target now reports admin=true.
	w = e.do(t, http.MethodPut, "/users/admin/u@x.com", adminTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("promote: status %d, body %s", w.Code, w.Body.String())
	}
	w = e.do(t, http.MethodGet, "/admin/u@x.com", userTok, nil)
	decodeBody(t, w, &status)
	if !status.Admin {
		t.Error("promoted user not reported as admin")
	}
}

func TestDoctorDirectory_AdminGatedCRUD(t *testing.T) {
	e := setupEnv(t)
	adminTok := seedAdmin(t, e, "boss@x.com")

	// Gated: no token 401, non-admin 403.
	w := e.do(t, http.MethodGet, "/doctor", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token: status %d, want 401", w.Code)
	}
	w = e.do(t, http.MethodGet, "/doctor", mustToken(t, "nobody@x.com"), nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("non-admin: status %d, want 403", w.Code)
	}

	w = e.do(t, http.MethodPost, "/doctor", adminTok, models.Doctor{
		Name:      "Dr. Smith",
		Email:     "smith@x.com",
		Specialty: "Orthodontics",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("add doctor: status %d, body %s", w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodGet, "/doctor", adminTok, nil)
	var doctors []models.Doctor
	decodeBody(t, w, &doctors)
	if len(doctors) != 1 || doctors[0].Email != "smith@x.com" {
		t.Fatalf("doctors = %+v, want the one added", doctors)
	}

	// Removing an unknown email is still a success with zero effect.
	var del struct {
		DeletedCount int64 `json:"deletedCount"`
	}
	w = e.do(t, http.MethodDelete, "/doctor/ghost@x.com", adminTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete missing: status %d", w.Code)
	}
	decodeBody(t, w, &del)
	if del.DeletedCount != 0 {
		t.Errorf("deletedCount = %d, want 0", del.DeletedCount)
	}

	w = e.do(t, http.MethodDelete, "/doctor/smith@x.com", adminTok, nil)
	decodeBody(t, w, &del)
	if del.DeletedCount != 1 {
		t.Errorf("deletedCount = %d, want 1", del.DeletedCount)
	}
}
