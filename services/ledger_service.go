package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"media-rewards-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrRewardNotFound    = errors.New("reward not found")
	ErrInsufficientFunds = errors.New("insufficient coins")
)

// XP needed per level: level = experience/20 + 1
const xpPerLevel = 20

// LedgerService owns the coin economy: users, the append-only transaction
// log, the reward catalog and redemptions. All balance mutations run under a
// per-user lock plus a DB transaction so that check-then-act on one user is a
// single critical section.
type LedgerService struct {
	DB *gorm.DB

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{
		DB:        db,
		userLocks: make(map[string]*sync.Mutex),
	}
}

func (s *LedgerService) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	return lock
}

// GetUser returns the user profile or ErrUserNotFound.
func (s *LedgerService) GetUser(userID string) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Earn credits amount coins and experience to the user. A level-up pays a
// bonus of newLevel*2 coins folded into the same transaction, so the
// persisted amount is the original amount plus any bonus. Leveling is a side
// effect of earning, never a standalone operation.
func (s *LedgerService) Earn(userID string, amount int, source, sourceID, description string) (*models.CoinTransaction, int, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	var txn *models.CoinTransaction
	newBalance := 0
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		total := amount
		user.Coins += amount
		user.Experience += amount

		newLevel := user.Experience/xpPerLevel + 1
		if newLevel > user.Level {
			bonus := newLevel * 2
			user.Coins += bonus
			total += bonus
			user.Level = newLevel
		}
		user.LastActivity = time.Now()

		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		txn = &models.CoinTransaction{
			ID:          uuid.NewString(),
			UserID:      userID,
			Amount:      total,
			Type:        models.TransactionTypeEarn,
			Source:      source,
			SourceID:    sourceID,
			Description: description,
		}
		if err := tx.Create(txn).Error; err != nil {
			return err
		}
		newBalance = user.Coins
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return txn, newBalance, nil
}

// Spend debits amount coins. On unknown user or insufficient balance nothing
// is mutated and no transaction is recorded.
func (s *LedgerService) Spend(userID string, amount int, source, sourceID, description string) (*models.CoinTransaction, int, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	var txn *models.CoinTransaction
	newBalance := 0
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		txn, newBalance, err = s.spendTx(tx, userID, amount, source, sourceID, description)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return txn, newBalance, nil
}

// BumpStreak advances the user's daily streak at most once per calendar day.
// Called on the daily check-in earn path; a second check-in the same day is a
// no-op, and a check-in after a skipped day restarts the streak at 1.
// Returns the current streak length.
func (s *LedgerService) BumpStreak(userID string) (int, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	streak := 0
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		var last models.CoinTransaction
		err := tx.Where("user_id = ? AND source = ?", userID, models.SourceDaily).
			Order("timestamp DESC").
			First(&last).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			user.StreakDays = 1
		case err != nil:
			return err
		default:
			switch daysBetween(last.Timestamp, time.Now()) {
			case 0:
				streak = user.StreakDays
				return nil
			case 1:
				user.StreakDays++
			default:
				// A skipped day breaks the streak.
				user.StreakDays = 1
			}
		}

		streak = user.StreakDays
		return tx.Save(&user).Error
	})
	if err != nil {
		return 0, err
	}
	return streak, nil
}

// daysBetween counts calendar-day boundaries crossed between two instants,
// both taken in local time.
func daysBetween(earlier, later time.Time) int {
	earlier = earlier.In(time.Local)
	later = later.In(time.Local)
	a := time.Date(earlier.Year(), earlier.Month(), earlier.Day(), 0, 0, 0, 0, time.Local)
	b := time.Date(later.Year(), later.Month(), later.Day(), 0, 0, 0, 0, time.Local)
	return int(b.Sub(a).Hours() / 24)
}

// spendTx is the debit step shared by Spend and RedeemReward. Caller holds
// the user lock and the surrounding DB transaction.
func (s *LedgerService) spendTx(tx *gorm.DB, userID string, amount int, source, sourceID, description string) (*models.CoinTransaction, int, error) {
	var user models.User
	if err := tx.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrUserNotFound
		}
		return nil, 0, err
	}
	if user.Coins < amount {
		return nil, 0, ErrInsufficientFunds
	}

	user.Coins -= amount
	if err := tx.Save(&user).Error; err != nil {
		return nil, 0, err
	}

	txn := &models.CoinTransaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Amount:      -amount,
		Type:        models.TransactionTypeSpend,
		Source:      source,
		SourceID:    sourceID,
		Description: description,
	}
	if err := tx.Create(txn).Error; err != nil {
		return nil, 0, err
	}
	return txn, user.Coins, nil
}

// RewardCost is the fixed earn schedule. Durations do not matter: full
// completion pays a flat rate per source. Game rewards are reported by the
// client and clamped to [0, 5].
func RewardCost(source string, durationMinutes int, category string) int {
	switch source {
	case models.SourceVideo:
		return 2
	case models.SourceSong:
		return 3
	case models.SourceRecreation:
		return 3
	case models.SourceDaily:
		return 10
	case models.SourceGame:
		amount := durationMinutes
		if amount < 0 {
			amount = 0
		}
		if amount > 5 {
			amount = 5
		}
		return amount
	default:
		return 5
	}
}

// RedeemReward exchanges coins for an available catalog reward and records
// the redemption exactly once.
func (s *LedgerService) RedeemReward(userID, rewardID string) (*models.Reward, int, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	var reward models.Reward
	newBalance := 0
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		if err := tx.First(&reward, "id = ? AND is_available = ?", rewardID, true).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRewardNotFound
			}
			return err
		}

		if user.Coins < reward.Cost {
			return ErrInsufficientFunds
		}

		var err error
		_, newBalance, err = s.spendTx(tx, userID, reward.Cost, models.SourceReward, rewardID,
			fmt.Sprintf("Redeemed %s", reward.Name))
		if err != nil {
			// Balance was just checked under the same lock; anything here is
			// an internal failure, not a user error.
			return fmt.Errorf("redemption debit failed: %w", err)
		}

		userReward := models.UserReward{
			ID:         uuid.NewString(),
			UserID:     userID,
			RewardID:   rewardID,
			RedeemedAt: time.Now(),
		}
		return tx.Create(&userReward).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return &reward, newBalance, nil
}

// GetRewards lists available rewards, optionally filtered by category.
func (s *LedgerService) GetRewards(category string) ([]models.Reward, error) {
	query := s.DB.Where("is_available = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var rewards []models.Reward
	if err := query.Find(&rewards).Error; err != nil {
		return nil, err
	}
	return rewards, nil
}

// UserRewardDetail pairs a redemption with its catalog entry.
type UserRewardDetail struct {
	models.UserReward
	RewardDetails models.Reward `json:"reward_details"`
}

// GetUserRewards returns the user's redemptions with reward details embedded.
func (s *LedgerService) GetUserRewards(userID string) ([]UserRewardDetail, error) {
	var userRewards []models.UserReward
	if err := s.DB.Where("user_id = ?", userID).Order("redeemed_at DESC").Find(&userRewards).Error; err != nil {
		return nil, err
	}

	result := make([]UserRewardDetail, 0, len(userRewards))
	for _, ur := range userRewards {
		var reward models.Reward
		if err := s.DB.First(&reward, "id = ?", ur.RewardID).Error; err != nil {
			continue
		}
		result = append(result, UserRewardDetail{UserReward: ur, RewardDetails: reward})
	}
	return result, nil
}

// GetTransactions returns the user's ledger history, newest first.
func (s *LedgerService) GetTransactions(userID string, limit int) ([]models.CoinTransaction, error) {
	if limit <= 0 {
		limit = 50
	}
	var txns []models.CoinTransaction
	err := s.DB.Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&txns).Error
	return txns, err
}

// Achievement is one derived achievement, either unlocked or reported with a
// "current/target" progress string.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
	Progress    string `json:"progress,omitempty"`
}

// AchievementReport is the full read-side derivation for a user.
type AchievementReport struct {
	Achievements      []Achievement `json:"achievements"`
	TotalAchievements int           `json:"total_achievements"`
	UserLevel         int           `json:"user_level"`
	UserExperience    int           `json:"user_experience"`
	NextLevelXP       int           `json:"next_level_xp"`
}

// DeriveAchievements recomputes achievements from transaction history and
// user stats. Nothing is mutated or persisted; every call derives from
// scratch.
func (s *LedgerService) DeriveAchievements(userID string) (*AchievementReport, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	var videosWatched int64
	if err := s.DB.Model(&models.CoinTransaction{}).
		Where("user_id = ? AND source = ? AND type = ?", userID, models.SourceVideo, models.TransactionTypeEarn).
		Count(&videosWatched).Error; err != nil {
		return nil, err
	}

	achievements := []Achievement{}

	if videosWatched >= 5 {
		achievements = append(achievements, Achievement{
			ID: "video_master", Name: "Video Master", Description: "Watched 5+ videos", Unlocked: true,
		})
	} else if videosWatched >= 3 {
		achievements = append(achievements, Achievement{
			ID: "video_master", Name: "Video Master", Description: "Watched 5+ videos",
			Progress: fmt.Sprintf("%d/5", videosWatched),
		})
	}

	if user.StreakDays >= 7 {
		achievements = append(achievements, Achievement{
			ID: "week_warrior", Name: "Week Warrior", Description: "7-day streak", Unlocked: true,
		})
	} else if user.StreakDays >= 3 {
		achievements = append(achievements, Achievement{
			ID: "week_warrior", Name: "Week Warrior", Description: "7-day streak",
			Progress: fmt.Sprintf("%d/7", user.StreakDays),
		})
	}

	if user.Level >= 3 {
		achievements = append(achievements, Achievement{
			ID: "level_master", Name: "Level Master", Description: "Reached level 3", Unlocked: true,
		})
	} else if user.Level >= 2 {
		achievements = append(achievements, Achievement{
			ID: "level_master", Name: "Level Master", Description: "Reached level 3",
			Progress: fmt.Sprintf("%d/3", user.Level),
		})
	}

	unlocked := 0
	for _, a := range achievements {
		if a.Unlocked {
			unlocked++
		}
	}

	return &AchievementReport{
		Achievements:      achievements,
		TotalAchievements: unlocked,
		UserLevel:         user.Level,
		UserExperience:    user.Experience,
		NextLevelXP:       user.Level*xpPerLevel - user.Experience,
	}, nil
}

// LedgerBalance recomputes a user's balance from the transaction log. Used
// by tests to check the denormalized User.Coins cache.
func (s *LedgerService) LedgerBalance(userID string) (int, error) {
	var amounts []int
	if err := s.DB.Model(&models.CoinTransaction{}).
		Where("user_id = ?", userID).
		Pluck("amount", &amounts).Error; err != nil {
		return 0, err
	}
	sum := 0
	for _, a := range amounts {
		sum += a
	}
	return sum, nil
}
