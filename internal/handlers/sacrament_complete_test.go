package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/miga-registro/registry-api/internal/auth"
	"github.com/miga-registro/registry-api/internal/database"
	"github.com/miga-registro/registry-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Seeded role ids, in insertion order.
const (
	roleBautizado uint = iota + 1
	roleComulgado
	roleConfirmado
	roleCasado
	rolePadrino
	roleMadrina
	roleMinistro
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedOperator(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{
		FirstName:    "Lucia",
		PaternalName: "Rojas",
		Email:        "lucia@parroquia.test",
		Password:     "x",
		BirthDate:    "1990-01-01",
		Active:       true,
		Role:         "ADMIN",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func seedParish(t *testing.T, db *gorm.DB) models.Parish {
	t.Helper()
	parish := models.Parish{
		Name:    "San Miguel",
		Address: "Calle 1",
		Phone:   "70000000",
		Email:   "sanmiguel@parroquia.test",
	}
	if err := db.Create(&parish).Error; err != nil {
		t.Fatalf("failed to create parish: %v", err)
	}
	return parish
}

func seedPerson(t *testing.T, db *gorm.DB, first, paternal, carnet string) models.Person {
	t.Helper()
	person := models.Person{
		FirstName:    first,
		PaternalName: paternal,
		NationalID:   carnet,
		BirthDate:    "2000-05-05",
		BirthPlace:   "La Paz",
		Active:       true,
	}
	if err := db.Create(&person).Error; err != nil {
		t.Fatalf("failed to create person %s: %v", carnet, err)
	}
	return person
}

func operatorContext(userID uint) context.Context {
	return context.WithValue(context.Background(), auth.UserIDKey, userID)
}

func relationsJSON(t *testing.T, rels []RelationInput) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(rels)
	if err != nil {
		t.Fatalf("failed to marshal relations: %v", err)
	}
	return raw
}

func errorStatus(t *testing.T, err error) int {
	t.Helper()
	se, ok := err.(huma.StatusError)
	if !ok {
		t.Fatalf("expected a status error, got %T: %v", err, err)
	}
	return se.GetStatus()
}

func TestHandleCreateCompleteMissingUser(t *testing.T) {
	db := openTestDB(t)
	seedOperator(t, db)
	parish := seedParish(t, db)
	person := seedPerson(t, db, "Ana", "Garcia", "1111111")
	handler := NewSacramentHandler(db)

	req := &CreateCompleteRequest{}
	req.Body.Date = "2024-03-10"
	req.Body.Folio = "12"
	req.Body.Number = 5
	req.Body.TypeID = 1
	req.Body.ParishID = parish.ID
	req.Body.Relations = relationsJSON(t, []RelationInput{{PersonID: person.ID, RoleID: roleBautizado}})

	_, err := handler.HandleCreateComplete(context.Background(), req)
	if err == nil {
		t.Fatal("expected an error without a session user")
	}
	if status := errorStatus(t, err); status != 400 {
		t.Errorf("expected status 400, got %d", status)
	}

	var sacraments, participations int64
	db.Model(&models.Sacrament{}).Count(&sacraments)
	db.Model(&models.Participation{}).Count(&participations)
	if sacraments != 0 || participations != 0 {
		t.Errorf("expected nothing persisted, got %d sacraments and %d participations", sacraments, participations)
	}
}

func TestHandleCreateComplete(t *testing.T) {
	db := openTestDB(t)
	user := seedOperator(t, db)
	parish := seedParish(t, db)
	baptized := seedPerson(t, db, "Ana", "Garcia", "1111111")
	godfather := seedPerson(t, db, "Jose", "Mamani", "2222222")
	handler := NewSacramentHandler(db)

	req := &CreateCompleteRequest{}
	req.Body.Date = "2024-03-10"
	req.Body.Folio = "12"
	req.Body.Number = 5
	req.Body.TypeID = 1
	req.Body.ParishID = parish.ID
	req.Body.Relations = relationsJSON(t, []RelationInput{
		{PersonID: baptized.ID, RoleID: roleBautizado},
		{PersonID: godfather.ID, RoleID: rolePadrino},
	})

	resp, err := handler.HandleCreateComplete(operatorContext(user.ID), req)
	if err != nil {
		t.Fatalf("HandleCreateComplete returned error: %v", err)
	}
	if resp.Body.Sacrament.UserID != user.ID {
		t.Errorf("expected recording user %d, got %d", user.ID, resp.Body.Sacrament.UserID)
	}

	var participations []models.Participation
	if err := db.Where("sacramento_id_sacramento = ?", resp.Body.Sacrament.ID).Find(&participations).Error; err != nil {
		t.Fatalf("failed to load participations: %v", err)
	}
	if len(participations) != 2 {
		t.Fatalf("expected 2 participations, got %d", len(participations))
	}
}

func TestHandleCreateCompleteStringRelations(t *testing.T) {
	db := openTestDB(t)
	user := seedOperator(t, db)
	parish := seedParish(t, db)
	person := seedPerson(t, db, "Ana", "Garcia", "1111111")
	handler := NewSacramentHandler(db)

	encoded, err := json.Marshal(string(relationsJSON(t, []RelationInput{{PersonID: person.ID, RoleID: roleBautizado}})))
	if err != nil {
		t.Fatalf("failed to encode relations string: %v", err)
	}

	req := &CreateCompleteRequest{}
	req.Body.Date = "2024-03-10"
	req.Body.Folio = "12"
	req.Body.Number = 5
	req.Body.TypeID = 1
	req.Body.ParishID = parish.ID
	req.Body.Relations = encoded

	if _, err := handler.HandleCreateComplete(operatorContext(user.ID), req); err != nil {
		t.Fatalf("HandleCreateComplete with encoded relations returned error: %v", err)
	}

	var count int64
	db.Model(&models.Participation{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 participation, got %d", count)
	}
}

func TestHandleCreateCompleteInvalidRelations(t *testing.T) {
	db := openTestDB(t)
	user := seedOperator(t, db)
	parish := seedParish(t, db)
	handler := NewSacramentHandler(db)

	req := &CreateCompleteRequest{}
	req.Body.Date = "2024-03-10"
	req.Body.Folio = "12"
	req.Body.Number = 5
	req.Body.TypeID = 1
	req.Body.ParishID = parish.ID
	req.Body.Relations = json.RawMessage(`{"persona_id": 1}`)

	_, err := handler.HandleCreateComplete(operatorContext(user.ID), req)
	if err == nil {
		t.Fatal("expected an error for non-array relations")
	}
	if status := errorStatus(t, err); status != 400 {
		t.Errorf("expected status 400, got %d", status)
	}
}

func TestHandleCreateCompleteRollsBackOnFailure(t *testing.T) {
	db := openTestDB(t)
	user := seedOperator(t, db)
	parish := seedParish(t, db)
	person := seedPerson(t, db, "Ana", "Garcia", "1111111")
	handler := NewSacramentHandler(db)

	// The duplicated pair violates the unique triple index on the second
	// insert, after the sacrament row is already in the transaction.
	req := &CreateCompleteRequest{}
	req.Body.Date = "2024-03-10"
	req.Body.Folio = "12"
	req.Body.Number = 5
	req.Body.TypeID = 1
	req.Body.ParishID = parish.ID
	req.Body.Relations = relationsJSON(t, []RelationInput{
		{PersonID: person.ID, RoleID: roleBautizado},
		{PersonID: person.ID, RoleID: roleBautizado},
	})

	if _, err := handler.HandleCreateComplete(operatorContext(user.ID), req); err == nil {
		t.Fatal("expected the duplicate relation to fail the request")
	}

	var sacraments, participations int64
	db.Model(&models.Sacrament{}).Count(&sacraments)
	db.Model(&models.Participation{}).Count(&participations)
	if sacraments != 0 || participations != 0 {
		t.Errorf("expected full rollback, got %d sacraments and %d participations", sacraments, participations)
	}
}

func TestHandleUpdateCompleteReconciliation(t *testing.T) {
	db := openTestDB(t)
	user := seedOperator(t, db)
	parish := seedParish(t, db)
	baptized := seedPerson(t, db, "Ana", "Garcia", "1111111")
	godfather := seedPerson(t, db, "Jose", "Mamani", "2222222")
	minister := seedPerson(t, db, "Pedro", "Quispe", "3333333")
	handler := NewSacramentHandler(db)

	createReq := &CreateCompleteRequest{}
	createReq.Body.Date = "2024-03-10"
	createReq.Body.Folio = "12"
	createReq.Body.Number = 5
	createReq.Body.TypeID = 1
	createReq.Body.ParishID = parish.ID
	createReq.Body.Relations = relationsJSON(t, []RelationInput{
		{PersonID: baptized.ID, RoleID: roleBautizado},
		{PersonID: godfather.ID, RoleID: rolePadrino},
	})
	created, err := handler.HandleCreateComplete(operatorContext(user.ID), createReq)
	if err != nil {
		t.Fatalf("HandleCreateComplete returned error: %v", err)
	}
	sacramentID := created.Body.Sacrament.ID

	var before []models.Participation
	db.Where("sacramento_id_sacramento = ?", sacramentID).Find(&before)
	keptID := uint(0)
	for _, p := range before {
		if p.RoleID == roleBautizado {
			keptID = p.ID
		}
	}
	if keptID == 0 {
		t.Fatal("expected a baptized participation after creation")
	}

	// Keep the baptized row, drop the godfather, add a minister.
	updateReq := &UpdateCompleteRequest{ID: sacramentID}
	updateReq.Body.Date = "2024-04-01"
	updateReq.Body.Folio = "13"
	updateReq.Body.Number = 6
	updateReq.Body.TypeID = 1
	updateReq.Body.ParishID = parish.ID
	updateReq.Body.Relations = relationsJSON(t, []RelationInput{
		{PersonID: baptized.ID, RoleID: roleBautizado},
		{PersonID: minister.ID, RoleID: roleMinistro},
	})
	if _, err := handler.HandleUpdateComplete(operatorContext(user.ID), updateReq); err != nil {
		t.Fatalf("HandleUpdateComplete returned error: %v", err)
	}

	var after []models.Participation
	db.Where("sacramento_id_sacramento = ?", sacramentID).Find(&after)
	if len(after) != 2 {
		t.Fatalf("expected 2 participations after reconciliation, got %d", len(after))
	}

	roles := map[uint]models.Participation{}
	for _, p := range after {
		roles[p.RoleID] = p
	}
	if _, gone := roles[rolePadrino]; gone {
		t.Error("expected the omitted godfather role to be removed")
	}
	if kept, ok := roles[roleBautizado]; !ok {
		t.Error("expected the baptized role to survive")
	} else if kept.ID != keptID {
		t.Errorf("expected the unchanged row to keep id %d, got %d", keptID, kept.ID)
	} else if kept.PersonID != baptized.ID {
		t.Errorf("expected person %d on the kept row, got %d", baptized.ID, kept.PersonID)
	}
	if added, ok := roles[roleMinistro]; !ok {
		t.Error("expected the minister role to be inserted")
	} else if added.PersonID != minister.ID {
		t.Errorf("expected person %d on the new row, got %d", minister.ID, added.PersonID)
	}

	var sacrament models.Sacrament
	if err := db.First(&sacrament, sacramentID).Error; err != nil {
		t.Fatalf("failed to reload sacrament: %v", err)
	}
	if sacrament.Date != "2024-04-01" || sacrament.Folio != "13" || sacrament.Number != 6 {
		t.Errorf("expected updated fields, got %s %s %d", sacrament.Date, sacrament.Folio, sacrament.Number)
	}
}

func TestHandleUpdateCompleteRepointsPerson(t *testing.T) {
	db := openTestDB(t)
	user := seedOperator(t, db)
	parish := seedParish(t, db)
	first := seedPerson(t, db, "Jose", "Mamani", "2222222")
	replacement := seedPerson(t, db, "Pedro", "Quispe", "3333333")
	handler := NewSacramentHandler(db)

	createReq := &CreateCompleteRequest{}
	createReq.Body.Date = "2024-03-10"
	createReq.Body.Folio = "12"
	createReq.Body.Number = 5
	createReq.Body.TypeID = 1
	createReq.Body.ParishID = parish.ID
	createReq.Body.Relations = relationsJSON(t, []RelationInput{{PersonID: first.ID, RoleID: rolePadrino}})
	created, err := handler.HandleCreateComplete(operatorContext(user.ID), createReq)
	if err != nil {
		t.Fatalf("HandleCreateComplete returned error: %v", err)
	}

	var original models.Participation
	if err := db.Where("sacramento_id_sacramento = ?", created.Body.Sacrament.ID).First(&original).Error; err != nil {
		t.Fatalf("failed to load participation: %v", err)
	}

	updateReq := &UpdateCompleteRequest{ID: created.Body.Sacrament.ID}
	updateReq.Body.Date = createReq.Body.Date
	updateReq.Body.Folio = createReq.Body.Folio
	updateReq.Body.Number = createReq.Body.Number
	updateReq.Body.TypeID = createReq.Body.TypeID
	updateReq.Body.ParishID = createReq.Body.ParishID
	updateReq.Body.Relations = relationsJSON(t, []RelationInput{{PersonID: replacement.ID, RoleID: rolePadrino}})
	if _, err := handler.HandleUpdateComplete(operatorContext(user.ID), updateReq); err != nil {
		t.Fatalf("HandleUpdateComplete returned error: %v", err)
	}

	var repointed models.Participation
	if err := db.First(&repointed, original.ID).Error; err != nil {
		t.Fatalf("expected the row to survive the re-point: %v", err)
	}
	if repointed.PersonID != replacement.ID {
		t.Errorf("expected person %d, got %d", replacement.ID, repointed.PersonID)
	}
}

func TestHandleUpdateCompleteNotFound(t *testing.T) {
	db := openTestDB(t)
	user := seedOperator(t, db)
	parish := seedParish(t, db)
	handler := NewSacramentHandler(db)

	req := &UpdateCompleteRequest{ID: 999}
	req.Body.Date = "2024-03-10"
	req.Body.Folio = "12"
	req.Body.Number = 5
	req.Body.TypeID = 1
	req.Body.ParishID = parish.ID
	req.Body.Relations = relationsJSON(t, []RelationInput{})

	_, err := handler.HandleUpdateComplete(operatorContext(user.ID), req)
	if err == nil {
		t.Fatal("expected an error for a missing sacrament")
	}
	if status := errorStatus(t, err); status != 404 {
		t.Errorf("expected status 404, got %d", status)
	}
}

func TestHandleGetCompleteExcludesRecordingUser(t *testing.T) {
	db := openTestDB(t)
	user := seedOperator(t, db)
	parish := seedParish(t, db)
	handler := NewSacramentHandler(db)

	// The first person gets id 1, matching the operator's user id.
	self := seedPerson(t, db, "Lucia", "Rojas", "9999999")
	if self.ID != user.ID {
		t.Fatalf("expected matching ids for the self-exclusion setup, got %d and %d", self.ID, user.ID)
	}
	other := seedPerson(t, db, "Ana", "Garcia", "1111111")

	createReq := &CreateCompleteRequest{}
	createReq.Body.Date = "2024-03-10"
	createReq.Body.Folio = "12"
	createReq.Body.Number = 5
	createReq.Body.TypeID = 1
	createReq.Body.ParishID = parish.ID
	createReq.Body.Relations = relationsJSON(t, []RelationInput{
		{PersonID: self.ID, RoleID: roleMinistro},
		{PersonID: other.ID, RoleID: roleBautizado},
	})
	created, err := handler.HandleCreateComplete(operatorContext(user.ID), createReq)
	if err != nil {
		t.Fatalf("HandleCreateComplete returned error: %v", err)
	}

	resp, err := handler.HandleGetComplete(context.Background(), &GetCompleteRequest{ID: created.Body.Sacrament.ID})
	if err != nil {
		t.Fatalf("HandleGetComplete returned error: %v", err)
	}
	if len(resp.Body.Participants) != 1 {
		t.Fatalf("expected 1 listed participant, got %d", len(resp.Body.Participants))
	}
	if resp.Body.Participants[0].PersonID != other.ID {
		t.Errorf("expected participant %d, got %d", other.ID, resp.Body.Participants[0].PersonID)
	}
	if resp.Body.Participants[0].FullName != "Ana Garcia" {
		t.Errorf("unexpected full name %q", resp.Body.Participants[0].FullName)
	}
}

func TestHandleSearchByPerson(t *testing.T) {
	db := openTestDB(t)
	user := seedOperator(t, db)
	parish := seedParish(t, db)
	handler := NewSacramentHandler(db)

	// Person 1 shares the operator's id, so its sacrament must be dropped.
	self := seedPerson(t, db, "Maria", "Garcia", "9999999")
	if self.ID != user.ID {
		t.Fatalf("expected matching ids for the self-exclusion setup, got %d and %d", self.ID, user.ID)
	}
	listed := seedPerson(t, db, "Ana", "Garcia", "1111111")
	unrelated := seedPerson(t, db, "Juan", "Flores", "2222222")

	mkSacrament := func(rels []RelationInput) uint {
		req := &CreateCompleteRequest{}
		req.Body.Date = "2024-03-10"
		req.Body.Folio = "12"
		req.Body.Number = 5
		req.Body.TypeID = 1
		req.Body.ParishID = parish.ID
		req.Body.Relations = relationsJSON(t, rels)
		resp, err := handler.HandleCreateComplete(operatorContext(user.ID), req)
		if err != nil {
			t.Fatalf("HandleCreateComplete returned error: %v", err)
		}
		return resp.Body.Sacrament.ID
	}

	kept := mkSacrament([]RelationInput{{PersonID: listed.ID, RoleID: roleBautizado}})
	mkSacrament([]RelationInput{{PersonID: self.ID, RoleID: roleBautizado}})
	mkSacrament([]RelationInput{{PersonID: unrelated.ID, RoleID: roleBautizado}})

	resp, err := handler.HandleSearchByPerson(context.Background(), &SearchByPersonRequest{Search: "garcia"})
	if err != nil {
		t.Fatalf("HandleSearchByPerson returned error: %v", err)
	}
	if resp.Body.TotalItems != 1 {
		t.Fatalf("expected 1 matching sacrament after self-exclusion, got %d", resp.Body.TotalItems)
	}
	if resp.Body.Results[0].Sacrament.ID != kept {
		t.Errorf("expected sacrament %d, got %d", kept, resp.Body.Results[0].Sacrament.ID)
	}
	if resp.Body.Results[0].Participants[0].PersonID != listed.ID {
		t.Errorf("expected participant %d, got %d", listed.ID, resp.Body.Results[0].Participants[0].PersonID)
	}
}

func TestHandleSearchByPersonMissingSearch(t *testing.T) {
	db := openTestDB(t)
	handler := NewSacramentHandler(db)

	_, err := handler.HandleSearchByPerson(context.Background(), &SearchByPersonRequest{})
	if err == nil {
		t.Fatal("expected an error without a search term")
	}
	if status := errorStatus(t, err); status != 400 {
		t.Errorf("expected status 400, got %d", status)
	}
}

func TestHandleSearchByPersonPagination(t *testing.T) {
	db := openTestDB(t)
	user := seedOperator(t, db)
	parish := seedParish(t, db)
	handler := NewSacramentHandler(db)

	// Burn id 1 so no person shares the operator's id.
	seedPerson(t, db, "Maria", "Lopez", "0000000")

	people := []models.Person{
		seedPerson(t, db, "Ana", "Garcia", "1111111"),
		seedPerson(t, db, "Jose", "Garcia", "2222222"),
		seedPerson(t, db, "Pedro", "Garcia", "3333333"),
	}
	for i, person := range people {
		req := &CreateCompleteRequest{}
		req.Body.Date = "2024-03-10"
		req.Body.Folio = "12"
		req.Body.Number = i + 1
		req.Body.TypeID = 1
		req.Body.ParishID = parish.ID
		req.Body.Relations = relationsJSON(t, []RelationInput{{PersonID: person.ID, RoleID: roleBautizado}})
		if _, err := handler.HandleCreateComplete(operatorContext(user.ID), req); err != nil {
			t.Fatalf("HandleCreateComplete returned error: %v", err)
		}
	}

	req := &SearchByPersonRequest{Search: "garcia"}
	req.Page = 2
	req.Limit = 2
	resp, err := handler.HandleSearchByPerson(context.Background(), req)
	if err != nil {
		t.Fatalf("HandleSearchByPerson returned error: %v", err)
	}
	if resp.Body.TotalItems != 3 {
		t.Errorf("expected 3 total matches, got %d", resp.Body.TotalItems)
	}
	if resp.Body.TotalPages != 2 {
		t.Errorf("expected 2 pages, got %d", resp.Body.TotalPages)
	}
	if len(resp.Body.Results) != 1 {
		t.Errorf("expected 1 result on the last page, got %d", len(resp.Body.Results))
	}
}
