package corpus

// DefaultCorpus returns the built-in sample corpus. It serves both as the
// default content and as the fallback when a custom source cannot be loaded.
func DefaultCorpus() []Document {
	return []Document{
		{
			Title:   "Legal Risk Assessment - Contract Liability",
			Content: "The current service agreement exposes our organization to significant liability risks due to several deficiencies. First, the contract lacks proper indemnification clauses that would protect us from third-party claims. Second, there are insufficient limitations on consequential damages, potentially exposing us to unlimited liability. The agreement also fails to include adequate force majeure provisions and dispute resolution mechanisms. Legal counsel recommends immediate contract revision to include comprehensive liability protection, capped damages clauses, and clear termination procedures. Without these protections, the organization faces substantial financial and legal exposure.",
			ChunkID: 1,
			Source:  SourceDefault,
		},
		{
			Title:   "Cybersecurity Policy - Authentication Requirements",
			Content: "All employees must implement multi-factor authentication (2FA) to reduce unauthorized access risks to corporate systems. This security requirement applies to email accounts, cloud storage platforms, financial systems, and any applications containing sensitive data. The IT department has identified that single-factor authentication presents significant vulnerabilities, particularly given the increase in phishing attacks and credential theft. Implementation of 2FA has been shown to prevent 99.9% of automated cyber attacks. Failure to comply with authentication requirements may result in disciplinary action and potential security incidents that could compromise client data and corporate intellectual property.",
			ChunkID: 2,
			Source:  SourceDefault,
		},
		{
			Title:   "Financial Performance Analysis - Q3 2023",
			Content: "Revenue performance for Q3 2023 shows strong growth of 15% year-over-year, driven primarily by increased client acquisitions and expanded service offerings. However, operational expenses have also increased significantly, particularly in legal and compliance costs due to ongoing litigation matters. Legal expenses alone account for 8% of total operational costs this quarter, representing a 45% increase from the previous year. The litigation involves contract disputes, regulatory compliance issues, and intellectual property claims. While revenue growth remains positive, the company must address escalating legal costs through improved contract management, enhanced compliance procedures, and proactive risk mitigation strategies to maintain profitability.",
			ChunkID: 3,
			Source:  SourceDefault,
		},
		{
			Title:   "Risk Management Framework - Enterprise Security",
			Content: "The enterprise risk management framework identifies several critical areas requiring immediate attention: cybersecurity threats, regulatory compliance gaps, and operational vulnerabilities. Cybersecurity risks include data breaches, ransomware attacks, and insider threats. The security assessment reveals insufficient monitoring capabilities, outdated encryption protocols, and inadequate incident response procedures. Regulatory compliance risks span multiple jurisdictions with varying data protection requirements, financial reporting standards, and industry-specific regulations. Operational risks include supply chain disruptions, key personnel dependencies, and technology infrastructure failures. Mitigation strategies must address these interconnected risks through comprehensive policies, regular audits, and continuous monitoring systems.",
			ChunkID: 4,
			Source:  SourceDefault,
		},
		{
			Title:   "Compliance Audit Results - Data Protection",
			Content: "The annual compliance audit reveals several areas of non-compliance with data protection regulations including GDPR, CCPA, and industry-specific privacy requirements. Key findings include inadequate data encryption for customer information, insufficient access controls for sensitive databases, and incomplete data breach notification procedures. The audit also identified gaps in employee training regarding data handling practices and inadequate documentation of data processing activities. Immediate corrective actions required include implementation of enhanced encryption protocols, revision of privacy policies, comprehensive staff training programs, and establishment of a dedicated data protection officer role. Failure to address these compliance gaps could result in significant regulatory penalties and reputational damage.",
			ChunkID: 5,
			Source:  SourceDefault,
		},
	}
}
