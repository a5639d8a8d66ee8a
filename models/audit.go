package models

import "time"

// LoginEvent is written once per successful sign-in.
type LoginEvent struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EmailUsuario string    `gorm:"column:email_usuario;not null;index" json:"emailUsuario"`
	UserAgent    string    `gorm:"column:user_agent" json:"userAgent"`
	IPAddress    string    `gorm:"column:ip_address" json:"ipAddress"`
	DataAcesso   time.Time `gorm:"column:data_acesso;not null" json:"dataAcesso"`
}

func (LoginEvent) TableName() string { return "log_acesso" }

// DeclarationEvent is written once per issued declaration.
type DeclarationEvent struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	EmailUsuario    string    `gorm:"column:email_usuario;not null;index" json:"emailUsuario"`
	NomeAluno       string    `gorm:"column:nome_aluno" json:"nomeAluno"`
	CPFAluno        string    `gorm:"column:cpf_aluno;index" json:"cpfAluno"`
	StatusPagamento string    `gorm:"column:status_pagamento" json:"statusPagamento"`
	WarningExibido  bool      `gorm:"column:warning_exibido" json:"warningExibido"`
	DataGeracao     time.Time `gorm:"column:data_geracao;not null" json:"dataGeracao"`
}

func (DeclarationEvent) TableName() string { return "log_declaracao" }
