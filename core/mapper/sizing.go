package mapper

// InstanceSize is the vCPU count and memory (GB) of a named instance type
type InstanceSize struct {
	VCPUs  float64
	Memory float64
}

// DefaultInstanceSize applies when an instance type is missing or unknown
var DefaultInstanceSize = InstanceSize{VCPUs: 2, Memory: 4}

var instanceSizes = map[string]InstanceSize{
	// AWS
	"t2.micro":      {1, 1},
	"t2.small":      {1, 2},
	"t2.medium":     {2, 4},
	"t2.large":      {2, 8},
	"t2.xlarge":     {4, 16},
	"t2.2xlarge":    {8, 32},
	"t3.micro":      {2, 1},
	"t3.small":      {2, 2},
	"t3.medium":     {2, 4},
	"t3.large":      {2, 8},
	"t3.xlarge":     {4, 16},
	"t3.2xlarge":    {8, 32},
	"t3a.micro":     {2, 1},
	"t3a.small":     {2, 2},
	"t3a.medium":    {2, 4},
	"t3a.large":     {2, 8},
	"t3a.xlarge":    {4, 16},
	"t3a.2xlarge":   {8, 32},
	"t4g.micro":     {2, 1},
	"t4g.small":     {2, 2},
	"t4g.medium":    {2, 4},
	"t4g.large":     {2, 8},
	"t4g.xlarge":    {4, 16},
	"t4g.2xlarge":   {8, 32},
	"m5.large":      {2, 8},
	"m5.xlarge":     {4, 16},
	"m5.2xlarge":    {8, 32},
	"m5.4xlarge":    {16, 64},
	"m5.8xlarge":    {32, 128},
	"m5.12xlarge":   {48, 192},
	"m5.16xlarge":   {64, 256},
	"m5.24xlarge":   {96, 384},
	"m5a.large":     {2, 8},
	"m5a.xlarge":    {4, 16},
	"m5a.2xlarge":   {8, 32},
	"m5a.4xlarge":   {16, 64},
	"m5a.8xlarge":   {32, 128},
	"m5a.12xlarge":  {48, 192},
	"m5a.16xlarge":  {64, 256},
	"m5a.24xlarge":  {96, 384},
	"m6i.large":     {2, 8},
	"m6i.xlarge":    {4, 16},
	"m6i.2xlarge":   {8, 32},
	"m6i.4xlarge":   {16, 64},
	"m6i.8xlarge":   {32, 128},
	"m6i.12xlarge":  {48, 192},
	"m6i.16xlarge":  {64, 256},
	"m6i.24xlarge":  {96, 384},
	"c5.large":      {2, 4},
	"c5.xlarge":     {4, 8},
	"c5.2xlarge":    {8, 16},
	"c5.4xlarge":    {16, 32},
	"c5.9xlarge":    {36, 72},
	"c5.12xlarge":   {48, 96},
	"c5.18xlarge":   {72, 144},
	"c5.24xlarge":   {96, 192},
	"c5a.large":     {2, 4},
	"c5a.xlarge":    {4, 8},
	"c5a.2xlarge":   {8, 16},
	"c5a.4xlarge":   {16, 32},
	"c5a.8xlarge":   {32, 64},
	"c5a.12xlarge":  {48, 96},
	"c5a.16xlarge":  {64, 128},
	"c5a.24xlarge":  {96, 192},
	"c6i.large":     {2, 4},
	"c6i.xlarge":    {4, 8},
	"c6i.2xlarge":   {8, 16},
	"c6i.4xlarge":   {16, 32},
	"c6i.8xlarge":   {32, 64},
	"c6i.12xlarge":  {48, 96},
	"c6i.16xlarge":  {64, 128},
	"c6i.24xlarge":  {96, 192},
	"r5.large":      {2, 16},
	"r5.xlarge":     {4, 32},
	"r5.2xlarge":    {8, 64},
	"r5.4xlarge":    {16, 128},
	"r5.8xlarge":    {32, 256},
	"r5.12xlarge":   {48, 384},
	"r5.16xlarge":   {64, 512},
	"r5.24xlarge":   {96, 768},
	"r5a.large":     {2, 16},
	"r5a.xlarge":    {4, 32},
	"r5a.2xlarge":   {8, 64},
	"r5a.4xlarge":   {16, 128},
	"r5a.8xlarge":   {32, 256},
	"r5a.12xlarge":  {48, 384},
	"r5a.16xlarge":  {64, 512},
	"r5a.24xlarge":  {96, 768},
	"r6i.large":     {2, 16},
	"r6i.xlarge":    {4, 32},
	"r6i.2xlarge":   {8, 64},
	"r6i.4xlarge":   {16, 128},
	"r6i.8xlarge":   {32, 256},
	"r6i.12xlarge":  {48, 384},
	"r6i.16xlarge":  {64, 512},
	"r6i.24xlarge":  {96, 768},
	"g4dn.xlarge":   {4, 16},
	"g4dn.2xlarge":  {8, 32},
	"g4dn.4xlarge":  {16, 64},
	"g4dn.8xlarge":  {32, 128},
	"g4dn.12xlarge": {48, 192},
	"g4dn.16xlarge": {64, 256},
	"p3.2xlarge":    {8, 61},
	"p3.8xlarge":    {32, 244},
	"p3.16xlarge":   {64, 488},
	"p4d.24xlarge":  {96, 1152},
	// Azure
	"Standard_B1s":      {1, 1},
	"Standard_B2s":      {2, 4},
	"Standard_B4ms":     {4, 16},
	"Standard_B8ms":     {8, 32},
	"Standard_D2s_v3":   {2, 8},
	"Standard_D4s_v3":   {4, 16},
	"Standard_D8s_v3":   {8, 32},
	"Standard_D16s_v3":  {16, 64},
	"Standard_D32s_v3":  {32, 128},
	"Standard_D64s_v3":  {64, 256},
	"Standard_E2s_v3":   {2, 16},
	"Standard_E4s_v3":   {4, 32},
	"Standard_E8s_v3":   {8, 64},
	"Standard_E16s_v3":  {16, 128},
	"Standard_E32s_v3":  {32, 256},
	"Standard_E64s_v3":  {64, 512},
	"Standard_F2s_v2":   {2, 4},
	"Standard_F4s_v2":   {4, 8},
	"Standard_F8s_v2":   {8, 16},
	"Standard_F16s_v2":  {16, 32},
	"Standard_F32s_v2":  {32, 64},
	"Standard_F64s_v2":  {64, 128},
	"Standard_NC6s_v3":  {6, 112},
	"Standard_NC12s_v3": {12, 224},
	"Standard_NC24s_v3": {24, 448},
	"Standard_ND6s":     {6, 112},
	"Standard_ND12s":    {12, 224},
	"Standard_ND24s":    {24, 448},
	// GCP
	"e2-micro":        {2, 1},
	"e2-small":        {2, 2},
	"e2-medium":       {2, 4},
	"e2-standard-2":   {2, 8},
	"e2-standard-4":   {4, 16},
	"e2-standard-8":   {8, 32},
	"e2-standard-16":  {16, 64},
	"e2-standard-32":  {32, 128},
	"n1-standard-1":   {1, 3.75},
	"n1-standard-2":   {2, 7.5},
	"n1-standard-4":   {4, 15},
	"n1-standard-8":   {8, 30},
	"n1-standard-16":  {16, 60},
	"n1-standard-32":  {32, 120},
	"n1-standard-64":  {64, 240},
	"n1-standard-96":  {96, 360},
	"n2-standard-2":   {2, 8},
	"n2-standard-4":   {4, 16},
	"n2-standard-8":   {8, 32},
	"n2-standard-16":  {16, 64},
	"n2-standard-32":  {32, 128},
	"n2-standard-48":  {48, 192},
	"n2-standard-64":  {64, 256},
	"n2-standard-80":  {80, 320},
	"n2-standard-96":  {96, 384},
	"n2-standard-128": {128, 512},
	"c2-standard-4":   {4, 16},
	"c2-standard-8":   {8, 32},
	"c2-standard-16":  {16, 64},
	"c2-standard-30":  {30, 120},
	"c2-standard-60":  {60, 240},
	"m1-megamem-96":   {96, 1433.6},
	"m1-ultramem-40":  {40, 961},
	"m1-ultramem-80":  {80, 1922},
	"m1-ultramem-160": {160, 3844},
	"a2-highgpu-1g":   {12, 85},
	"a2-highgpu-2g":   {24, 170},
	"a2-highgpu-4g":   {48, 340},
	"a2-highgpu-8g":   {96, 680},
	// OCI
	"VM.Standard.E2.1.Micro": {1, 1},
	"VM.Standard.E2.1":       {1, 8},
	"VM.Standard.E2.2":       {2, 16},
	"VM.Standard.E2.4":       {4, 32},
	"VM.Standard.E2.8":       {8, 64},
	"VM.Standard.E3.Flex":    {1, 16},
	"VM.Standard.E4.Flex":    {1, 32},
	"VM.Standard.E5.Flex":    {1, 64},
	"VM.Standard1.1":         {1, 7},
	"VM.Standard1.2":         {2, 14},
	"VM.Standard1.4":         {4, 28},
	"VM.Standard1.8":         {8, 56},
	"VM.Standard1.16":        {16, 112},
	"VM.Standard2.1":         {1, 15},
	"VM.Standard2.2":         {2, 30},
	"VM.Standard2.4":         {4, 60},
	"VM.Standard2.8":         {8, 120},
	"VM.Standard2.16":        {16, 240},
	"VM.Standard2.24":        {24, 360},
	"VM.Standard3.Flex":      {1, 16},
	"VM.Standard4.Flex":      {1, 16},
	"VM.Standard5.Flex":      {1, 12},
	"BM.Standard.E2.64":      {64, 512},
	"BM.Standard.E3.128":     {128, 1024},
	"BM.Standard.E4.128":     {128, 1024},
	"BM.Standard1.36":        {36, 256},
	"BM.Standard2.52":        {52, 768},
	"BM.Standard3.72":        {72, 1024},
	"BM.GPU2.2":              {28, 192},
	"BM.GPU3.8":              {52, 768},
	"BM.GPU4.8":              {52, 2048},
}

// SizeOf returns the size of an instance type, machine type, VM size or shape.
// ok is false when the name is unknown and the default was returned.
func SizeOf(instanceType string) (InstanceSize, bool) {
	if s, ok := instanceSizes[instanceType]; ok {
		return s, true
	}
	return DefaultInstanceSize, false
}
