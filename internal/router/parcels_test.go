package router

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chachabrian/parcel-backend/internal/models"
	"github.com/chachabrian/parcel-backend/internal/testutil"
)

var malformedIDs = []string{"123", "zzzzzzzzzzzzzzzzzzzzzzzz", "64b7f0c2e4b0a1a2b3c4d5e", "64b7f0c2e4b0a1a2b3c4d5e6f7"}

func TestGetParcel(t *testing.T) {
	env := newEnv(t)
	parcel := env.store.SeedParcel(models.Parcel{Title: "Books", CreatedBy: "a@b.com", PaymentStatus: models.PaymentStatusUnpaid})

	rec := env.do(http.MethodGet, "/parcels/"+parcel.ID.Hex(), nil, "")
	expectStatus(t, rec, http.StatusOK)

	var got models.Parcel
	decode(t, rec, &got)
	if got.ID != parcel.ID || got.Title != "Books" {
		t.Errorf("unexpected parcel %+v", got)
	}
}

func TestGetParcel_UnknownIDIsNotFound(t *testing.T) {
	env := newEnv(t)
	env.store.SeedParcel(models.Parcel{Title: "Books"})

	for i := 0; i < 5; i++ {
		expectStatus(t, env.do(http.MethodGet, "/parcels/"+testutil.UnknownID(), nil, ""), http.StatusNotFound)
	}
}

func TestMalformedParcelIDsNeverReachStore(t *testing.T) {
	env := newEnv(t)

	for _, id := range malformedIDs {
		expectStatus(t, env.do(http.MethodGet, "/parcels/"+id, nil, ""), http.StatusBadRequest)
		expectStatus(t, env.do(http.MethodDelete, "/parcels/"+id, nil, ""), http.StatusBadRequest)
	}

	if env.store.ParcelLookups != 0 {
		t.Errorf("store was queried %d times for malformed ids", env.store.ParcelLookups)
	}
}

func TestDeleteParcel(t *testing.T) {
	env := newEnv(t)
	parcel := env.store.SeedParcel(models.Parcel{Title: "Books"})

	rec := env.do(http.MethodDelete, "/parcels/"+parcel.ID.Hex(), nil, "")
	expectStatus(t, rec, http.StatusOK)

	var body map[string]interface{}
	decode(t, rec, &body)
	if body["deletedCount"] != float64(1) {
		t.Errorf("unexpected deletedCount %v", body["deletedCount"])
	}

	expectStatus(t, env.do(http.MethodDelete, "/parcels/"+parcel.ID.Hex(), nil, ""), http.StatusNotFound)
	expectStatus(t, env.do(http.MethodGet, "/parcels/"+parcel.ID.Hex(), nil, ""), http.StatusNotFound)
}

func TestListParcels_NewestFirstAndFiltered(t *testing.T) {
	env := newEnv(t)
	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	for i, offset := range []int{3, 1, 5, 2} {
		creator := "a@b.com"
		if i%2 == 1 {
			creator = "c@d.com"
		}
		env.store.SeedParcel(models.Parcel{CreatedBy: creator, CreationDate: base.Add(time.Duration(offset) * time.Hour)})
	}

	rec := env.do(http.MethodGet, "/parcels", nil, "")
	expectStatus(t, rec, http.StatusOK)
	var all []models.Parcel
	decode(t, rec, &all)
	if len(all) != 4 {
		t.Fatalf("expected 4 parcels, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].CreationDate.After(all[i-1].CreationDate) {
			t.Errorf("parcels not sorted by creation_date descending at %d", i)
		}
	}

	rec = env.do(http.MethodGet, "/parcels?email=a@b.com", nil, env.token(t, "a@b.com"))
	expectStatus(t, rec, http.StatusOK)
	var mine []models.Parcel
	decode(t, rec, &mine)
	if len(mine) != 2 {
		t.Fatalf("expected 2 parcels for a@b.com, got %d", len(mine))
	}
	for _, p := range mine {
		if p.CreatedBy != "a@b.com" {
			t.Errorf("unexpected creator %s", p.CreatedBy)
		}
	}
}

func TestListParcels_RejectsBadToken(t *testing.T) {
	env := newEnv(t)
	expectStatus(t, env.do(http.MethodGet, "/parcels", nil, "Bearer forged"), http.StatusForbidden)
}

func TestCreateParcel(t *testing.T) {
	env := newEnv(t)
	body := map[string]interface{}{
		"type":           "document",
		"title":          "Contract",
		"created_by":     "a@b.com",
		"payment_status": "paid",
		"cost":           80,
	}

	rec := env.do(http.MethodPost, "/parcels", body, "")
	expectStatus(t, rec, http.StatusCreated)

	var res map[string]string
	decode(t, rec, &res)
	if res["insertedId"] == "" || res["tracking_id"] == "" {
		t.Fatalf("expected insertedId and tracking_id, got %v", res)
	}

	parcels, _ := env.store.ListParcels(context.Background(), "a@b.com")
	if len(parcels) != 1 {
		t.Fatalf("expected one stored parcel, got %d", len(parcels))
	}
	p := parcels[0]
	if p.PaymentStatus != models.PaymentStatusUnpaid {
		t.Errorf("new parcels start unpaid, got %s", p.PaymentStatus)
	}
	if p.CreationDate.IsZero() {
		t.Error("expected creation_date to be set")
	}
	if p.TrackingID != res["tracking_id"] {
		t.Errorf("stored tracking id %s differs from response %s", p.TrackingID, res["tracking_id"])
	}
}

func TestCreateParcel_CreatorFromToken(t *testing.T) {
	env := newEnv(t)

	rec := env.do(http.MethodPost, "/parcels", map[string]string{"title": "Box"}, env.token(t, "me@b.com"))
	expectStatus(t, rec, http.StatusCreated)

	parcels, _ := env.store.ListParcels(context.Background(), "me@b.com")
	if len(parcels) != 1 {
		t.Fatalf("expected parcel created by token subject, got %d", len(parcels))
	}
}

func TestCreateParcel_Invalid(t *testing.T) {
	env := newEnv(t)
	expectStatus(t, env.do(http.MethodPost, "/parcels", map[string]string{"title": "Box"}, ""), http.StatusBadRequest)
	expectStatus(t, env.do(http.MethodPost, "/parcels", "{not json", ""), http.StatusBadRequest)
}

func uploadRequest(t *testing.T, path string, withFile bool) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if withFile {
		part, err := writer.CreateFormFile("parcelImage", "box.jpg")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		_, _ = part.Write([]byte("jpeg"))
	}
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadParcelImage(t *testing.T) {
	env := newEnv(t)
	parcel := env.store.SeedParcel(models.Parcel{Title: "Books"})

	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, uploadRequest(t, "/parcels/"+parcel.ID.Hex()+"/image", true))
	expectStatus(t, rec, http.StatusOK)

	stored, _ := env.store.Parcel(parcel.ID)
	if stored.ParcelImage != "https://cdn.example.com/parcels/box.jpg" {
		t.Errorf("unexpected parcel_image %q", stored.ParcelImage)
	}

	rec = httptest.NewRecorder()
	env.engine.ServeHTTP(rec, uploadRequest(t, "/parcels/"+parcel.ID.Hex()+"/image", false))
	expectStatus(t, rec, http.StatusBadRequest)

	rec = httptest.NewRecorder()
	env.engine.ServeHTTP(rec, uploadRequest(t, "/parcels/"+testutil.UnknownID()+"/image", true))
	expectStatus(t, rec, http.StatusNotFound)

	if len(env.storage.Uploaded) != 1 {
		t.Errorf("expected a single upload, got %v", env.storage.Uploaded)
	}
}
