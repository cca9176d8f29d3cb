package models

// Compact attribute keys used by the vendor's JSON payloads. The wire format
// abbreviates nearly everything; these constants keep the abbreviations in
// one place.
const (
	AttrID                     = "_id"
	AttrPanelID                = "panid"
	AttrPartitionID            = "parid"
	AttrType                   = "t"
	AttrName                   = "n"
	AttrState                  = "s"
	AttrOnline                 = "ol"
	AttrBatteryLevel           = "bl"
	AttrLowBattery             = "lb"
	AttrSerialNumber           = "ser"
	AttrSerialNumber32Bit      = "ser32"
	AttrBypassed               = "b"
	AttrTamper                 = "ta"
	AttrFirmwareVersion        = "fwv"
	AttrCurrentSoftwareVersion = "csv"
	AttrFeatures               = "ft"
	AttrMACAddress             = "mac"
	AttrDevices                = "d"
	AttrUnregistered           = "ureg"
	AttrHidden                 = "hidden"

	// Switch / thermostat
	AttrValue              = "val"
	AttrCoolSetPoint       = "csp"
	AttrHeatSetPoint       = "hsp"
	AttrFanMode            = "fm"
	AttrFanState           = "fs"
	AttrHoldMode           = "hm"
	AttrHumidity           = "hmdt"
	AttrMaximumTemperature = "maxt"
	AttrMinimumTemperature = "mint"
	AttrOperatingMode      = "om"
	AttrOperatingState     = "os"

	// Sensors
	AttrEquipmentCode = "ec"
	AttrEquipmentType = "eqt"
	AttrSensorType    = "set"

	// Locks
	AttrUserCodeList = "ucl"

	// Cameras
	AttrActualType          = "act"
	AttrCameraIPAddress     = "caip"
	AttrCameraIPPort        = "cap"
	AttrCameraMAC           = "cmac"
	AttrCameraPrivacy       = "cpri"
	AttrCameraThumbnailDate = "ctd"
	AttrCameraDirectAvail   = "cda"
	AttrDingDong            = "dng"
	AttrVisitorDetected     = "vdt"
	AttrDeterOnDuty         = "deter_on_duty"
	AttrWirelessSignal      = "wiss"
	AttrClipURL             = "clip_url"
	AttrCameraUsername      = "un"
	AttrCameraPassword      = "pswd"
	AttrDirectStreamPathHD  = "cdp"
	AttrDirectStreamPathSD  = "cdps"
	AttrCaptureClipOnMotion = "ccom"
	AttrExtendChime         = "dcce"

	// System body
	AttrSystem         = "system"
	AttrPartitions     = "par"
	AttrUsers          = "u"
	AttrAdmin          = "ad"
	AttrSystemNickname = "sn"
	AttrFeatureSet     = "fea"

	// Users
	AttrHasLockPin     = "hasLockPin"
	AttrHasPanelPin    = "hasPanelPin"
	AttrHasPins        = "hasPins"
	AttrLockIDs        = "liv"
	AttrRemoteAccess   = "rav"
	AttrUserRegistered = "ureg"
)

// Push message field keys and well-known values.
const (
	MsgType        = "t"
	MsgOperation   = "op"
	MsgPanelID     = "panid"
	MsgPartitionID = "parid"
	MsgData        = "da"

	MessageTypeAccountSystem    = "account_system"
	MessageTypeAccountPartition = "account_partition"

	OperationCreate = "c"
	OperationUpdate = "u"
	OperationDelete = "d"
)

// PushMessage is the raw state-change message read off the vendor push
// stream. Data keeps the nested payload opaque; unknown message types are
// forwarded untouched.
type PushMessage struct {
	Type        string         `json:"t"`
	Operation   string         `json:"op,omitempty"`
	PanelID     int64          `json:"panid"`
	PartitionID int64          `json:"parid,omitempty"`
	Data        map[string]any `json:"da,omitempty"`
}
