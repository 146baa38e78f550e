package mapper

import (
	"github.com/highveld-fm/commercial-api/internal/domain"
)

// ToClientDTO converts Client to ClientDTO
func ToClientDTO(client *domain.Client) domain.ClientDTO {
	return domain.ClientDTO{
		ID:            client.ID,
		CompanyID:     client.CompanyID,
		Name:          client.Name,
		Email:         client.Email,
		Phone:         client.Phone,
		Address:       client.Address,
		City:          client.City,
		PostalCode:    client.PostalCode,
		VATNumber:     client.VATNumber,
		ContactPerson: client.ContactPerson,
		SiteAreas:     client.SiteAreas,
		CreatedAt:     client.CreatedAt,
		UpdatedAt:     client.UpdatedAt,
	}
}

// ToProjectDTO converts Project to ProjectDTO
func ToProjectDTO(project *domain.Project) domain.ProjectDTO {
	dto := domain.ProjectDTO{
		ID:            project.ID,
		CompanyID:     project.CompanyID,
		ClientID:      project.ClientID,
		ClientName:    project.ClientName,
		Name:          project.Name,
		SiteAddress:   project.SiteAddress,
		Description:   project.Description,
		Status:        project.Status,
		WorkflowStage: project.WorkflowStage,
		StartDate:     project.StartDate,
		CreatedAt:     project.CreatedAt,
		UpdatedAt:     project.UpdatedAt,
	}

	if dto.ClientName == "" && project.Client != nil {
		dto.ClientName = project.Client.Name
	}

	return dto
}

// ToScopeOfWorkDTO converts ScopeOfWork to ScopeOfWorkDTO
func ToScopeOfWorkDTO(sow *domain.ScopeOfWork) domain.ScopeOfWorkDTO {
	items := make([]domain.SOWItemDTO, len(sow.Items))
	for i, item := range sow.Items {
		items[i] = domain.SOWItemDTO{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			Area:        item.Area,
			Position:    item.Position,
		}
	}

	return domain.ScopeOfWorkDTO{
		ID:        sow.ID,
		ProjectID: sow.ProjectID,
		Version:   sow.Version,
		Status:    sow.Status,
		Title:     sow.Title,
		Notes:     sow.Notes,
		Items:     items,
		CreatedAt: sow.CreatedAt,
	}
}

// ToWorkBreakdownDTO converts WorkBreakdown to WorkBreakdownDTO
func ToWorkBreakdownDTO(wbp *domain.WorkBreakdown) domain.WorkBreakdownDTO {
	items := make([]domain.WBPItemDTO, len(wbp.Items))
	for i, item := range wbp.Items {
		items[i] = domain.WBPItemDTO{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			UnitPrice:   item.UnitPrice,
			Position:    item.Position,
		}
	}

	return domain.WorkBreakdownDTO{
		ID:            wbp.ID,
		ProjectID:     wbp.ProjectID,
		ScopeOfWorkID: wbp.ScopeOfWorkID,
		Status:        wbp.Status,
		Notes:         wbp.Notes,
		Items:         items,
		CreatedAt:     wbp.CreatedAt,
		UpdatedAt:     wbp.UpdatedAt,
	}
}

// ToInvoiceDTO converts Invoice to InvoiceDTO
func ToInvoiceDTO(invoice *domain.Invoice) domain.InvoiceDTO {
	items := make([]domain.InvoiceItemDTO, len(invoice.Items))
	for i, item := range invoice.Items {
		items[i] = domain.InvoiceItemDTO{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
			Position:    item.Position,
		}
	}

	return domain.InvoiceDTO{
		ID:            invoice.ID,
		CompanyID:     invoice.CompanyID,
		ProjectID:     invoice.ProjectID,
		WBPID:         invoice.WBPID,
		Type:          invoice.Type,
		Number:        invoice.Number,
		Label:         invoice.Label,
		Status:        invoice.Status,
		Currency:      invoice.Currency,
		Subtotal:      invoice.Subtotal,
		TaxAmount:     invoice.TaxAmount,
		Total:         invoice.Total,
		PaidToDate:    invoice.PaidToDate,
		IssueDate:     invoice.IssueDate,
		DueDate:       invoice.DueDate,
		SourceQuoteID: invoice.SourceQuoteID,
		Notes:         invoice.Notes,
		Items:         items,
		CreatedAt:     invoice.CreatedAt,
		UpdatedAt:     invoice.UpdatedAt,
	}
}

// ToPaymentDTO converts Payment to PaymentDTO
func ToPaymentDTO(payment *domain.Payment) domain.PaymentDTO {
	return domain.PaymentDTO{
		ID:        payment.ID,
		InvoiceID: payment.InvoiceID,
		Amount:    payment.Amount,
		Method:    payment.Method,
		PaidAt:    payment.PaidAt,
		Notes:     payment.Notes,
		CreatedAt: payment.CreatedAt,
	}
}

// ToAuditEntryDTO converts AuditEntry to AuditEntryDTO
func ToAuditEntryDTO(entry *domain.AuditEntry) domain.AuditEntryDTO {
	return domain.AuditEntryDTO{
		ID:         entry.ID,
		CompanyID:  entry.CompanyID,
		ProjectID:  entry.ProjectID,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Milestone:  entry.Milestone,
		Detail:     entry.Detail,
		ActorName:  entry.ActorName,
		OccurredAt: entry.OccurredAt,
	}
}

// ToFileDTO converts File to FileDTO
func ToFileDTO(file *domain.File) domain.FileDTO {
	return domain.FileDTO{
		ID:          file.ID,
		Filename:    file.Filename,
		ContentType: file.ContentType,
		Size:        file.Size,
		InvoiceID:   file.InvoiceID,
		CreatedAt:   file.CreatedAt,
	}
}
