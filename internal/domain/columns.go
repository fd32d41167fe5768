package domain

// Sheet titles in the plant workbook.
const (
	SheetDowntime         = "PARO DE MAQUINA"
	SheetProductionHeader = "PRODUCCION_CABECERA"
	SheetProductionDetail = "PRODUCCION_LISTA"
	SheetStockCount       = "DETALLE CONTEO"
)

// Downtime sheet columns.
const (
	ColDowntimeID      = "IDPARO"
	ColDowntimeDate    = "FECHA"
	ColDowntimeMachine = "MÁQUINA AFECTADA"
	ColDowntimeShift   = "TURNO"
	ColDowntimeStart   = "INICIO"
	ColDowntimeDur     = "DURACIÓN"
	ColDowntimeHAC     = "HAC"
	ColDowntimeHACDet  = "DETALLE HAC"
	ColDowntimeReason  = "TEXTO DE CAUSA"
	ColDowntimeSAP     = "CAUSA SAP"
	ColDowntimeType    = "TIPO PARO"
)

// Production header sheet columns. This sheet was loaded by a different crew
// and uses lowercase headers.
const (
	ColHeaderDate        = "fecha"
	ColHeaderID          = "id_produccion"
	ColHeaderShift       = "turno"
	ColHeaderMachine     = "paletizadora"
	ColHeaderMachineDesc = "descripcion_paletizadora"
	ColHeaderTn          = "tn_totales_turno"
	ColHeaderHsRunning   = "hs_marcha"
	ColHeaderHsExtStop   = "hs_paro_externo_decimal"
	ColHeaderDuration    = "duracion_turno"
	ColHeaderRefRate     = "rendimiento"
)

// Production detail sheet columns.
const (
	ColDetailDate        = "FECHA"
	ColDetailHeaderID    = "ID_CABECERA"
	ColDetailBags        = "BOLSAS PRODUCIDAS"
	ColDetailMaterial    = "DESCRIPCION_MATERIAL"
	ColDetailProvider    = "DESCRIPCION_PROVEEDOR"
	ColDetailBrkSealer   = "BOLSAS DESCARTADAS_ENSACADORA"
	ColDetailBrkMouth    = "BOLSAS DESCARTADAS_NO_EMBOQUILLADA"
	ColDetailBrkVento    = "BOLSAS_DESCARTADAS_VENTOCHECK"
	ColDetailBrkConvey   = "BOLSAS_DESCARTADAS_TRANSPORTE"
	ColDetailTnProduced  = "TN_PRODUCIDA"
	ColDetailTnPerBagAlt = "tn/bdp"
)

// Stock count sheet columns.
const (
	ColCountDate     = "FECHA"
	ColCountProduct  = "PRODUCTO"
	ColCountQuantity = "CANTIDAD"
	ColCountTonnage  = "TN"
)
