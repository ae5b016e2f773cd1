package platforms

// builtin holds the manufacturer ids published for mbed interface firmware
var builtin = Table{
	"0001": "LPC2368",
	"0002": "LPC2368",
	"0003": "LPC2368",
	"0004": "LPC2368",
	"0005": "LPC2368",
	"0006": "LPC2368",
	"0007": "LPC2368",
	"0100": "LPC2368",
	"0183": "UBLOX_C027",
	"0200": "KL25Z",
	"0210": "KL05Z",
	"0220": "KL46Z",
	"0230": "K20D50M",
	"0231": "K22F",
	"0240": "K64F",
	"0245": "K64F",
	"0300": "MTS_GAMBIT",
	"0305": "MTS_MDOT_F405RG",
	"0310": "MTS_DRAGONFLY_F411RE",
	"0315": "MTS_MDOT_F411RE",
	"0400": "MAXWSNENV",
	"0405": "MAX32600MBED",
	"0700": "NUCLEO_F103RB",
	"0705": "NUCLEO_F302R8",
	"0710": "NUCLEO_L152RE",
	"0715": "NUCLEO_L053R8",
	"0720": "NUCLEO_F401RE",
	"0725": "NUCLEO_F030R8",
	"0730": "NUCLEO_F072RB",
	"0735": "NUCLEO_F334R8",
	"0740": "NUCLEO_F411RE",
	"0745": "NUCLEO_F303RE",
	"0750": "NUCLEO_F091RC",
	"0755": "NUCLEO_F070RB",
	"0760": "NUCLEO_L073RZ",
	"0795": "DISCO_F429ZI",
	"0805": "DISCO_L053C8",
	"0810": "DISCO_F334C8",
	"0815": "DISCO_F746NG",
	"0820": "DISCO_L476VG",
	"0824": "LPC824",
	"0835": "NUCLEO_F042K6",
	"1000": "LPC2368",
	"1001": "LPC2368",
	"1010": "LPC1768",
	"1017": "HRM1017",
	"1018": "SSCI824",
	"1019": "TY51822R3",
	"1034": "LPC11U34",
	"1040": "LPC11U24",
	"1045": "LPC11U24",
	"1050": "LPC812",
	"1060": "LPC4088",
	"1061": "LPC11U35_401",
	"1062": "LPC4088_DM",
	"1070": "NRF51822",
	"1075": "NRF51822_OTA",
	"1080": "OC_MBUINO",
	"1090": "RBLAB_NRF51822",
	"1095": "RBLAB_BLENANO",
	"1100": "NRF51_DK",
	"1101": "NRF51_DK",
	"1114": "LPC1114",
	"1120": "NRF51_DONGLE",
	"1130": "NRF51822_SBK",
	"1140": "WALLBOT_BLE",
	"1168": "LPC11U68",
	"1234": "UBLOX_C027",
	"1235": "UBLOX_C027",
	"1549": "LPC1549",
	"1600": "LPC4330_M4",
	"1605": "LPC4330_M4",
	"2000": "EFM32_G8XX_STK",
	"2005": "EFM32HG_STK3400",
	"2010": "EFM32WG_STK3800",
	"2015": "EFM32GG_STK3700",
	"2020": "EFM32LG_STK3600",
	"2025": "EFM32TG_STK3300",
	"2030": "EFM32ZG_STK3200",
	"2100": "XBED_LPC1768",
	"3001": "LPC11U24",
	"4000": "LPC11U35_Y5_MBUG",
	"4005": "NRF51822_Y5_MBUG",
	"4100": "MOTE_L152RC",
	"4337": "LPC4337",
	"4500": "DELTA_DFCM_NNN40",
	"5000": "ARM_MPS2",
	"5001": "ARM_MPS2_M0",
	"5003": "ARM_MPS2_M0P",
	"5005": "ARM_MPS2_M0DS",
	"5007": "ARM_MPS2_M1",
	"5009": "ARM_MPS2_M3",
	"5011": "ARM_MPS2_M4",
	"5015": "ARM_MPS2_M7",
	"5020": "HOME_GATEWAY_6LOWPAN",
	"5500": "RZ_A1H",
	"6660": "NZ32_SC151",
	"7010": "BLUENINJA_CDP_TZ01B",
	"7402": "MBED_BR_HAT",
	"7778": "TEENSY3_1",
	"8001": "UNO_91H",
	"9001": "LPC1347",
	"9002": "LPC11U24",
	"9003": "LPC1347",
	"9004": "ARCH_PRO",
	"9006": "LPC11U24",
	"9007": "LPC11U35_501",
	"9008": "XADOW_M0",
	"9009": "ARCH_BLE",
	"9010": "ARCH_GPRS",
	"9011": "ARCH_MAX",
	"9012": "SEEED_TINY_BLE",
	"9900": "NRF51_MICROBIT",
	"C002": "VK_RZ_A1H",
	"C005": "MTM_MTCONNECT04S",
	"FFFF": "K20 BOOTLOADER",
	"RIOT": "RIOT",
}

// Default returns a copy of the built-in table
func Default() Table {
	return builtin.Merge()
}
