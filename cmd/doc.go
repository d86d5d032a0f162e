/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/


package main

//	@title			Tank Twin APIs
//	@version		v3

// @BasePath	/tanktwin/
// @host		localhost:48100

// @securityDefinitions.basic  BasicAuth
// @Security BasicAuth
