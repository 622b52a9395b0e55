package services

import (
	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/muni_tax_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/muni_tax_ledger/internal/core/ports/services"
)

// ServiceDependencies carries the collaborators that live outside the ledger store.
type ServiceDependencies struct {
	Authorizer portssvc.PaymentAuthorizer
	Publisher  portssvc.EventPublisher
	Metrics    portssvc.LedgerMetrics
	AccountMap domain.AccountMap
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, deps ServiceDependencies) *portssvc.ServiceContainer {
	accountMap := deps.AccountMap
	if accountMap.FilerLiability == nil {
		accountMap = domain.DefaultAccountMap()
	}

	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo, repos.TxManager)

	// The poster is shared by every adapter so all postings go through one validation path.
	container.Journal = NewJournalService(
		repos.TxManager,
		repos.JournalRepo,
		WithJournalMetrics(deps.Metrics),
		WithEventPublisher(deps.Publisher),
	)

	container.Reporting = NewReportingService(repos.AccountRepo, repos.ReportingRepo)
	container.Statement = NewStatementService(repos.AccountRepo, repos.ReportingRepo, WithStatementAccountMap(accountMap))
	container.Assessment = NewAssessmentService(container.Journal, accountMap)
	container.Payment = NewPaymentService(
		repos.TxManager,
		repos.PaymentRepo,
		container.Journal,
		deps.Authorizer,
		accountMap,
		WithPaymentMetrics(deps.Metrics),
	)
	container.Refund = NewRefundService(repos.TxManager, repos.RefundRepo, container.Journal, accountMap)
	container.Audit = NewAuditService(repos.AuditRepo)

	return container
}
