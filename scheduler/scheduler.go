package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/campusfind/lost-and-found-api/databases"
	"github.com/campusfind/lost-and-found-api/matching"
	"github.com/campusfind/lost-and-found-api/models"
	templates "github.com/campusfind/lost-and-found-api/templates/html"
)

// Scheduler handles periodic background jobs: releasing found items whose
// claims disappeared out from under them, and refreshing match snapshots on
// open lost item reports.
type Scheduler struct {
	cron       *cron.Cron
	LostItems  databases.LostItemDatabase
	FoundItems databases.FoundItemDatabase
	Claims     databases.ClaimDatabase
	Users      databases.UserDatabase
	Engine     *matching.Engine
}

// New creates a new scheduler instance
func New(db databases.DatabaseHelper) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		LostItems:  databases.NewLostItemDatabase(db),
		FoundItems: databases.NewFoundItemDatabase(db),
		Claims:     databases.NewClaimDatabase(db),
		Users:      databases.NewUserDatabase(db),
		Engine:     matching.New(matching.DefaultConfig()),
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Release stranded found items every hour. An item stuck in claimed with
	// no pending claim attached is the residue of a crash between the status
	// flip and the claim insert.
	_, err := s.cron.AddFunc("@hourly", s.reconcileClaimedItems)
	if err != nil {
		zap.S().Errorw("failed to register reconcile job", "error", err)
	}

	// Refresh match snapshots nightly at 2 AM UTC and notify owners of new
	// candidates
	_, err = s.cron.AddFunc("0 2 * * *", s.refreshMatchSnapshots)
	if err != nil {
		zap.S().Errorw("failed to register match refresh job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("lost and found scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("lost and found scheduler stopped")
}

// reconcileClaimedItems releases found items that sit in claimed with no
// pending claim attached
func (s *Scheduler) reconcileClaimedItems() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	claimed, err := s.FoundItems.Find(ctx, bson.M{"foundItem.status": models.FoundItemClaimed})
	if err != nil {
		zap.S().Errorw("failed to load claimed found items", "error", err)
		return
	}

	released := 0
	for _, item := range claimed {
		pending, err := s.Claims.CountDocuments(ctx, bson.M{
			"claim.foundItem": item.ID,
			"claim.status":    models.ClaimPending,
		})
		if err != nil {
			zap.S().Errorw("failed to count pending claims",
				"foundItemID", item.ID.Hex(), "error", err)
			continue
		}
		if pending > 0 {
			continue
		}

		res, err := s.FoundItems.UpdateOne(ctx,
			bson.M{"_id": item.ID, "foundItem.status": models.FoundItemClaimed},
			bson.M{"$set": bson.M{
				"foundItem.status":    models.FoundItemAvailable,
				"foundItem.updatedAt": primitive.NewDateTimeFromTime(time.Now().UTC()),
			}},
		)
		if err != nil {
			zap.S().Errorw("failed to release found item",
				"foundItemID", item.ID.Hex(), "error", err)
			continue
		}
		if res.MatchedCount() > 0 {
			released++
		}
	}

	if released > 0 {
		zap.S().Infow("released stranded found items", "count", released)
	}
}

// refreshMatchSnapshots reruns the matcher for every active lost item and
// emails the owner when new candidates appear
func (s *Scheduler) refreshMatchSnapshots() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	active, err := s.LostItems.Find(ctx, bson.M{"lostItem.status": models.LostItemActive})
	if err != nil {
		zap.S().Errorw("failed to load active lost items", "error", err)
		return
	}

	pool, err := s.FoundItems.Find(ctx, bson.M{"foundItem.status": models.FoundItemAvailable})
	if err != nil {
		zap.S().Errorw("failed to load available found items", "error", err)
		return
	}

	refreshed := 0
	for _, lost := range active {
		matches := s.Engine.RankMatches(lost.Details, pool)

		known := make(map[primitive.ObjectID]bool, len(lost.Details.MatchedFoundItems))
		for _, prev := range lost.Details.MatchedFoundItems {
			known[prev.FoundItemID] = true
		}

		snapshot := make([]models.MatchedFoundItem, 0, len(matches))
		newMatches := 0
		for _, match := range matches {
			snapshot = append(snapshot, models.MatchedFoundItem{
				FoundItemID: match.FoundItem.ID,
				MatchScore:  match.MatchScore,
			})
			if !known[match.FoundItem.ID] {
				newMatches++
			}
		}

		if _, err := s.LostItems.UpdateOne(ctx,
			bson.M{"_id": lost.ID},
			bson.M{"$set": bson.M{
				"lostItem.matchedFoundItems": snapshot,
				"lostItem.updatedAt":         primitive.NewDateTimeFromTime(time.Now().UTC()),
			}},
		); err != nil {
			zap.S().Errorw("failed to store match snapshot",
				"lostItemID", lost.ID.Hex(), "error", err)
			continue
		}
		refreshed++

		// sent inline: the job context is cancelled as soon as the loop
		// finishes, which would kill an async lookup mid-flight
		if newMatches > 0 {
			s.sendNewMatchesEmail(ctx, lost, newMatches)
		}
	}

	zap.S().Infow("match snapshot refresh complete",
		"itemsRefreshed", refreshed,
		"poolSize", len(pool),
	)
}

func (s *Scheduler) sendNewMatchesEmail(ctx context.Context, lost models.LostItem, newMatches int) {
	email, name := s.getUserEmail(ctx, lost.Details.UserID)
	if email == "" {
		return
	}

	subject := "New Matches Found for Your Lost Item"
	body := fmt.Sprintf(
		"Hi %s,\n\nGood news! We found %d new possible match(es) for your lost item \"%s\".\n\nLog in to review the candidates and file a claim if one of them is yours.",
		name, newMatches, lost.Details.ItemName)

	if err := s.sendEmail(email, name, subject, templates.RenderGenericEmail(subject, body), body); err != nil {
		zap.S().Errorw("failed to send new matches email",
			"lostItemID", lost.ID.Hex(), "error", err)
	}
}

func (s *Scheduler) sendEmail(toEmail, toName, subject, htmlContent, plainText string) error {
	from := mail.NewEmail("CampusFind Lost & Found", "no-reply@campusfind.app")
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body)
	}
	return nil
}

func (s *Scheduler) getUserEmail(ctx context.Context, userID string) (email, name string) {
	user, err := s.Users.FindOne(ctx, bson.M{"_id": userID})
	if err != nil || user.Details.Email == "" {
		return "", ""
	}
	return user.Details.Email, user.Details.Name
}
