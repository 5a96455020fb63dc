package main

// @title           Vex Core API
// @version         1.0
// @description     Assistente conversacional que executa ações dos módulos core, crm e stock com confirmação explícita

// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Cabeçalho de autenticação JWT usando o esquema Bearer. Exemplo: "Bearer {token}"
