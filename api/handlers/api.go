package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/campusfind/lost-and-found-api/api"
	"github.com/campusfind/lost-and-found-api/claims"
	"github.com/campusfind/lost-and-found-api/config"
	"github.com/campusfind/lost-and-found-api/databases"
	"github.com/campusfind/lost-and-found-api/matching"
	"github.com/campusfind/lost-and-found-api/models"
	"github.com/campusfind/lost-and-found-api/scheduler"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Scheduler *scheduler.Scheduler
	dbHelper  databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewUserDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	r := mux.NewRouter()
	r.Use(api.TimeoutMiddleware(30 * time.Second))

	engine := matching.New(matching.DefaultConfig())
	manager := &claims.Manager{
		Claims:     databases.NewClaimDatabase(a.dbHelper),
		LostItems:  databases.NewLostItemDatabase(a.dbHelper),
		FoundItems: databases.NewFoundItemDatabase(a.dbHelper),
	}

	u := User{DB: databases.NewUserDatabase(a.dbHelper)}
	admin := Admin{UDB: databases.NewUserDatabase(a.dbHelper)}
	lost := LostItem{
		DB:      databases.NewLostItemDatabase(a.dbHelper),
		FoundDB: databases.NewFoundItemDatabase(a.dbHelper),
		Engine:  engine,
	}
	found := FoundItem{DB: databases.NewFoundItemDatabase(a.dbHelper)}
	claim := Claim{Manager: manager, DB: databases.NewClaimDatabase(a.dbHelper)}
	analytics := Analytics{
		LDB: databases.NewLostItemDatabase(a.dbHelper),
		FDB: databases.NewFoundItemDatabase(a.dbHelper),
		CDB: databases.NewClaimDatabase(a.dbHelper),
	}
	uploadHandler := UploadHandler{}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/auth/token", m.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", m.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")
	apiCreate.Handle("/auth/admin/login", http.HandlerFunc(admin.AdminLoginHandler)).Methods("POST")

	apiCreate.Handle("/user/create-user", http.HandlerFunc(u.UserCreateHandler)).Methods("POST")
	apiCreate.Handle("/user/check-user", http.HandlerFunc(u.UserCheckEmailHandler)).Methods("POST")
	apiCreate.Handle("/user/{user_id}", m.Middleware(http.HandlerFunc(u.UserHandler))).Methods("GET")

	apiCreate.Handle("/lost-items", m.OptionalMiddleware(http.HandlerFunc(lost.LostItemsHandler))).Methods("GET")
	apiCreate.Handle("/lost-items", m.Middleware(http.HandlerFunc(lost.CreateLostItemHandler))).Methods("POST")
	apiCreate.Handle("/lost-items/my-items", m.Middleware(http.HandlerFunc(lost.MyLostItemsHandler))).Methods("GET")
	apiCreate.Handle("/lost-items/{lost_item_id}", m.OptionalMiddleware(http.HandlerFunc(lost.LostItemByIDHandler))).Methods("GET")
	apiCreate.Handle("/lost-items/{lost_item_id}", m.Middleware(http.HandlerFunc(lost.UpdateLostItemHandler))).Methods("PUT")
	apiCreate.Handle("/lost-items/{lost_item_id}", m.Middleware(http.HandlerFunc(lost.DeleteLostItemHandler))).Methods("DELETE")
	apiCreate.Handle("/lost-items/{lost_item_id}/matches", m.Middleware(http.HandlerFunc(lost.LostItemMatchesHandler))).Methods("GET")

	apiCreate.Handle("/found-items", m.OptionalMiddleware(http.HandlerFunc(found.FoundItemsHandler))).Methods("GET")
	apiCreate.Handle("/found-items", m.OptionalMiddleware(http.HandlerFunc(found.CreateFoundItemHandler))).Methods("POST")
	apiCreate.Handle("/found-items/my-items", m.Middleware(http.HandlerFunc(found.MyFoundItemsHandler))).Methods("GET")
	apiCreate.Handle("/found-items/{found_item_id}", m.OptionalMiddleware(http.HandlerFunc(found.FoundItemByIDHandler))).Methods("GET")
	apiCreate.Handle("/found-items/{found_item_id}", m.Middleware(http.HandlerFunc(found.UpdateFoundItemHandler))).Methods("PUT")
	apiCreate.Handle("/found-items/{found_item_id}", m.Middleware(http.HandlerFunc(found.DeleteFoundItemHandler))).Methods("DELETE")

	apiCreate.Handle("/claims", m.Middleware(http.HandlerFunc(claim.CreateClaimHandler))).Methods("POST")
	apiCreate.Handle("/claims", api.AdminMiddleware(http.HandlerFunc(claim.ClaimsHandler))).Methods("GET")
	apiCreate.Handle("/claims/my-claims", m.Middleware(http.HandlerFunc(claim.MyClaimsHandler))).Methods("GET")
	apiCreate.Handle("/claims/{claim_id}", m.Middleware(http.HandlerFunc(claim.ClaimByIDHandler))).Methods("GET")
	apiCreate.Handle("/claims/{claim_id}/approve", api.AdminMiddleware(http.HandlerFunc(claim.ApproveClaimHandler))).Methods("PUT")
	apiCreate.Handle("/claims/{claim_id}/reject", api.AdminMiddleware(http.HandlerFunc(claim.RejectClaimHandler))).Methods("PUT")

	apiCreate.Handle("/analytics/dashboard", api.AdminMiddleware(http.HandlerFunc(analytics.DashboardHandler))).Methods("GET")

	apiCreate.Handle("/generate-upload-signature", m.Middleware(http.HandlerFunc(uploadHandler.GenerateSignature))).Methods("POST")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("lost-and-found-api has connected to the database")

	a.Scheduler = scheduler.New(a.dbHelper)
	a.Scheduler.Start()

	// initialize api router
	a.initializeRoutes()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
