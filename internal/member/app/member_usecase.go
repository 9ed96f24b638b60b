package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"folio_service/internal/member/domain"
	"folio_service/internal/member/repository"
	"folio_service/pkg/database"
	"folio_service/pkg/encrypt"
	errprocess "folio_service/pkg/err"
	"folio_service/pkg/logger"
	token "folio_service/pkg/token"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MemberUseCase application services of the member service
type MemberUseCase interface {
	Register(ctx context.Context, email, password, displayName string) error
	FindMember(ctx context.Context, param *domain.MemberQuery) (*domain.Member, error)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, token string) error
	Subscribe(ctx context.Context, memberID string, months int) (string, error)
	CheckSessionTimeout(ctx context.Context, token string) (bool, error)
	ReconnectSession(ctx context.Context, token string) error
}

type memberUseCase struct {
	memberRepo       repository.MemberRepository
	subscriptionRepo repository.SubscriptionRepo
	sessionTTL       time.Duration
	redisRepo        database.RedisRepository[domain.MemberSession]
}

// NewMemberUseCase create a new MemberUseCase
func NewMemberUseCase(memberRepo repository.MemberRepository,
	subscriptionRepo repository.SubscriptionRepo,
	sessionTTL time.Duration,
	redisRepo database.RedisRepository[domain.MemberSession],
) MemberUseCase {
	return &memberUseCase{
		memberRepo:       memberRepo,
		subscriptionRepo: subscriptionRepo,
		sessionTTL:       sessionTTL,
		redisRepo:        redisRepo,
	}
}

// Register creates an account on the free plan.
func (m *memberUseCase) Register(ctx context.Context, email, password, displayName string) error {
	if _, err := m.memberRepo.FindByMember(ctx, &domain.MemberQuery{Email: &email}); err == nil {
		return errprocess.New(errprocess.CodeInvalidArgument, "email already exists")
	}

	if err := encrypt.ValidatePasswordStrength(password); err != nil {
		return errprocess.New(errprocess.CodeInvalidArgument, err.Error())
	}
	pw, err := encrypt.HashPassword(password)
	if err != nil {
		logger.Log.Errorf("password err :", err)
		return err
	}

	member := domain.Member{
		MemberID:    uuid.New().String(),
		Email:       email,
		Password:    pw,
		DisplayName: displayName,
	}

	logger.Log.Info(fmt.Sprintf("usecase Register : %s", member.MemberID))

	return m.memberRepo.CreateUser(ctx, &member)
}

// FindMember find a member by query conditions
func (m *memberUseCase) FindMember(ctx context.Context, param *domain.MemberQuery) (*domain.Member, error) {
	return m.memberRepo.FindByMember(ctx, param)
}

// Login verifies the credentials, resolves the active plan and issues a JWT
// carrying it. The session is cached in redis under the member id.
func (m *memberUseCase) Login(ctx context.Context, email, password string) (string, error) {
	member, err := m.memberRepo.FindByMember(ctx, &domain.MemberQuery{Email: &email})
	if err != nil {
		logger.Log.Error("email can't find!!!")
		return "", errors.New("user not found")
	}

	if err = member.IsPasswordMatch(password); err != nil {
		logger.Log.Error("password can't match!!!")
		return "", err
	}

	member.Status = domain.MemberStatusOnLine

	plan, err := m.activePlan(member.MemberID)
	if err != nil {
		return "", err
	}

	t, err := token.GenerateJWTWrapper(member.MemberID, string(plan))
	if err != nil {
		return "", err
	}

	now := time.Now()
	session := domain.MemberSession{
		Token:        t,
		MemberID:     member.MemberID,
		Plan:         string(plan),
		CreatedAt:    now,
		LastActivity: now,
		ExpiredAt:    now.Add(m.sessionTTL),
	}

	m.redisRepo.Set(context.Background(), member.MemberID, session, m.sessionTTL)

	if err := m.memberRepo.UpdateMemberStatus(ctx, member); err != nil {
		return "", err
	}

	return t, nil
}

// Logout drops the session and marks the member offline.
func (m *memberUseCase) Logout(ctx context.Context, t string) error {
	tokenInfo, err := token.ParseJWTWrapper(t)
	if err != nil {
		logger.Log.Error("Logout err :", zap.String("err", err.Error()))
		return err
	}
	logger.Log.Debug("logout", zap.String("member token info", fmt.Sprintf("%v", tokenInfo)))

	m.redisRepo.Del(context.Background(), tokenInfo.AccountID)

	return m.memberRepo.UpdateMemberStatus(ctx, &domain.Member{
		MemberID: tokenInfo.AccountID,
		Status:   domain.MemberStatusOffLine,
	})
}

// Subscribe upgrades the member to the pro plan for the given number of
// months and returns a fresh JWT carrying it. Tokens issued before the
// upgrade keep their old plan until they expire.
func (m *memberUseCase) Subscribe(ctx context.Context, memberID string, months int) (string, error) {
	if months < 1 {
		return "", errprocess.New(errprocess.CodeInvalidArgument,
			fmt.Sprintf("months[%d] must be >= 1", months))
	}
	if _, err := m.memberRepo.FindByMember(ctx, &domain.MemberQuery{MemberID: &memberID}); err != nil {
		return "", errprocess.New(errprocess.CodeNotFound,
			fmt.Sprintf("memberId[%s] does not exist", memberID))
	}

	expiresAt := time.Now().AddDate(0, months, 0)
	if err := m.subscriptionRepo.Upsert(memberID, token.PlanPro, &expiresAt); err != nil {
		return "", err
	}

	t, err := token.GenerateJWTWrapper(memberID, string(token.PlanPro))
	if err != nil {
		return "", err
	}

	logger.Log.Info(fmt.Sprintf("memberId[%s] subscribed until %s", memberID, expiresAt.Format(time.RFC3339)))
	return t, nil
}

func (m *memberUseCase) activePlan(memberID string) (token.PlanType, error) {
	sub, err := m.subscriptionRepo.GetByMemberID(memberID)
	if err != nil {
		return token.PlanFree, err
	}
	return sub.ActivePlan(), nil
}

// CheckSessionTimeout reports whether the cached session already lapsed.
func (m *memberUseCase) CheckSessionTimeout(ctx context.Context, t string) (bool, error) {
	tokenInfo, err := token.ParseJWTWrapper(t)
	if err != nil {
		logger.Log.Error("CheckSessionTimeout err :", zap.String("err", err.Error()))
		return true, err
	}

	ttl, err := m.redisRepo.GetTTL(context.Background(), tokenInfo.AccountID)
	if err != nil {
		return true, err
	}

	return ttl <= 0, nil
}

// ReconnectSession refreshes the session TTL after a reconnect.
func (m *memberUseCase) ReconnectSession(ctx context.Context, t string) error {
	tokenInfo, err := token.ParseJWTWrapper(t)
	if err != nil {
		logger.Log.Error("ReconnectSession err :", zap.String("err", err.Error()))
		return err
	}

	m.redisRepo.ExtendTTL(context.Background(), tokenInfo.AccountID, m.sessionTTL)
	return nil
}
